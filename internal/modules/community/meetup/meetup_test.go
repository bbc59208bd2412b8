package meetup

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sakhi-app/core/internal/middleware"
	"github.com/sakhi-app/core/internal/models"
	"github.com/sakhi-app/core/internal/pkg/jwt"
	"github.com/sakhi-app/core/internal/pkg/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(testdb.New(t))
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func date(s string) models.Date {
	d, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func dto(title, city, day string) *MeetupDTO {
	return &MeetupDTO{Title: title, City: city, Date: date(day), Time: "17:30"}
}

func TestCreateDefaultsAndValidation(t *testing.T) {
	svc := newTestService(t)

	m, err := svc.Create(1, dto("Walk", "Pune", "2025-06-10"))
	require.NoError(t, err)
	assert.Equal(t, models.MeetupInPerson, m.MeetupType)
	assert.Equal(t, "English", m.Language)
	assert.True(t, m.IsCreator)

	bad := dto("Walk", "Pune", "2025-06-10")
	bad.Time = "5pm"
	_, err = svc.Create(1, bad)
	assert.ErrorIs(t, err, errInvalidTime)

	bad = dto("Walk", "Pune", "2025-06-10")
	bad.MeetupType = "hybrid"
	_, err = svc.Create(1, bad)
	assert.ErrorIs(t, err, errInvalidType)

	_, err = svc.Create(1, &MeetupDTO{Title: "x", City: "Pune", Time: "10:00"})
	assert.ErrorIs(t, err, errDateRequired)

	v := dto("Talk", "Online", "2025-06-11")
	v.MeetupType = "virtual"
	m, err = svc.Create(1, v)
	require.NoError(t, err)
	assert.Equal(t, models.MeetupVirtual, m.MeetupType)
}

func TestListFiltersAndFlags(t *testing.T) {
	svc := newTestService(t)
	a, err := svc.Create(1, dto("Later", "Pune", "2025-07-01"))
	require.NoError(t, err)
	_, err = svc.Create(1, dto("Soon", "pune", "2025-06-05"))
	require.NoError(t, err)
	_, err = svc.Create(1, dto("Past", "Pune", "2025-05-01"))
	require.NoError(t, err)
	_, err = svc.Create(1, dto("Elsewhere", "Chennai", "2025-06-20"))
	require.NoError(t, err)

	require.NoError(t, svc.Join(2, a.ID))
	require.NoError(t, svc.Join(3, a.ID))
	_, err = svc.Star(2, a.ID)
	require.NoError(t, err)

	out, err := svc.List(2, ListQuery{City: "PUNE"})
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "Past", out[0].Title)
	assert.Equal(t, "Later", out[2].Title)
	assert.Equal(t, int64(2), out[2].ParticipantsCount)
	assert.True(t, out[2].UserJoined)
	assert.True(t, out[2].UserStarred)
	assert.Equal(t, 1, out[2].Stars)
	assert.False(t, out[2].IsCreator)

	out, err = svc.List(0, ListQuery{Upcoming: true})
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "Soon", out[0].Title)
	assert.False(t, out[2].UserJoined)
}

func TestJoinLeaveStar(t *testing.T) {
	svc := newTestService(t)
	m, err := svc.Create(1, dto("Walk", "Pune", "2025-06-10"))
	require.NoError(t, err)

	require.NoError(t, svc.Join(2, m.ID))
	assert.ErrorIs(t, svc.Join(2, m.ID), errAlreadyJoined)
	assert.ErrorIs(t, svc.Join(2, 999), errMeetupNotFound)

	require.NoError(t, svc.Leave(2, m.ID))
	assert.ErrorIs(t, svc.Leave(2, m.ID), errNotJoined)

	n, err := svc.Star(2, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	_, err = svc.Star(2, m.ID)
	assert.ErrorIs(t, err, errAlreadyStarred)
}

func TestUpdateDeleteCreatorOnly(t *testing.T) {
	svc := newTestService(t)
	m, err := svc.Create(1, dto("Walk", "Pune", "2025-06-10"))
	require.NoError(t, err)
	require.NoError(t, svc.Join(2, m.ID))

	_, err = svc.Update(2, m.ID, dto("Hijack", "Pune", "2025-06-10"))
	assert.ErrorIs(t, err, errNotCreator)

	next := dto("Evening walk", "Mumbai", "2025-06-12")
	next.Description = "by the sea"
	out, err := svc.Update(1, m.ID, next)
	require.NoError(t, err)
	assert.Equal(t, "Evening walk", out.Title)
	assert.Equal(t, "Mumbai", out.City)
	assert.Equal(t, "2025-06-12", out.Date.String())
	assert.Equal(t, int64(1), out.ParticipantsCount)

	assert.ErrorIs(t, svc.Delete(2, m.ID), errNotCreator)
	require.NoError(t, svc.Delete(1, m.ID))
	_, err = svc.Get(1, m.ID)
	assert.ErrorIs(t, err, errMeetupNotFound)
}

func TestHandlerRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := newTestService(t)
	signer := jwt.NewSigner("s", time.Hour)
	r := gin.New()
	NewHandler(svc, signer).RegisterRoutes(r.Group("/api/v1"), middleware.Auth(signer))

	do := func(method, path, body string, uid uint) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if uid != 0 {
			token, err := signer.Sign(uid)
			require.NoError(t, err)
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	body := `{"title":"Yoga","city":"Pune","date":"2025-06-10","time":"07:00"}`
	assert.Equal(t, http.StatusUnauthorized, do(http.MethodPost, "/api/v1/meetups", body, 0).Code)
	w := do(http.MethodPost, "/api/v1/meetups", body, 1)
	require.Equal(t, http.StatusCreated, w.Code)
	var created meetupResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	path := "/api/v1/meetups/" + strconv.FormatUint(uint64(created.ID), 10)

	assert.Equal(t, http.StatusOK, do(http.MethodPost, path+"/join", "", 2).Code)
	assert.Equal(t, http.StatusConflict, do(http.MethodPost, path+"/join", "", 2).Code)
	assert.Equal(t, http.StatusOK, do(http.MethodPost, path+"/star", "", 2).Code)
	assert.Equal(t, http.StatusConflict, do(http.MethodPost, path+"/star", "", 2).Code)

	w = do(http.MethodGet, "/api/v1/meetups?city=Pune", "", 2)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Data []meetupResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Data, 1)
	assert.True(t, list.Data[0].UserJoined)

	w = do(http.MethodGet, path, "", 0)
	require.Equal(t, http.StatusOK, w.Code)
	var anon meetupResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &anon))
	assert.False(t, anon.UserJoined)
	assert.Equal(t, int64(1), anon.ParticipantsCount)

	bad := `{"title":"Yoga","city":"Pune","date":"2025-06-10","time":"7am"}`
	assert.Equal(t, http.StatusUnprocessableEntity, do(http.MethodPut, path, bad, 1).Code)
	assert.Equal(t, http.StatusForbidden, do(http.MethodPut, path, body, 2).Code)
	assert.Equal(t, http.StatusForbidden, do(http.MethodDelete, path, "", 2).Code)
	assert.Equal(t, http.StatusOK, do(http.MethodDelete, path, "", 1).Code)
	assert.Equal(t, http.StatusNotFound, do(http.MethodGet, path, "", 0).Code)
}
