package routes

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"visit-access/database"
	accessModel "visit-access/models/access"
	"visit-access/models/housing"
	"visit-access/repository"
)

// startApp wires the full route table onto a loopback listener so the
// decision client can call back into the same process, the way the
// production deployment points DECISION_WEBHOOK_URL at its own decision
// route.
func startApp(t *testing.T, withWebhook bool) (string, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	baseURL := "http://" + ln.Addr().String()

	t.Setenv("SERVICE_JWT_SECRET", "sekret")
	if withWebhook {
		t.Setenv("DECISION_WEBHOOK_URL", baseURL+"/api/access/twilio-decision")
	} else {
		t.Setenv("DECISION_WEBHOOK_URL", "")
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	SetupRoutes(app, db)

	go func() {
		_ = app.Listener(ln)
	}()
	t.Cleanup(func() {
		_ = app.Shutdown()
	})

	client := &http.Client{Timeout: time.Second}
	require.Eventually(t, func() bool {
		resp, err := client.Get(baseURL + "/twilio/")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond, "server did not come up")

	return baseURL, db
}

func seedAccess(t *testing.T, db *gorm.DB) *accessModel.Access {
	t.Helper()

	unit := &housing.HousingUnit{Block: "A", Unit: "7"}
	require.NoError(t, db.Create(unit).Error)
	phone := "0991234567"
	require.NoError(t, db.Create(&housing.Resident{
		FirstNames:    "Maria",
		LastNames:     "Perez",
		Phone:         &phone,
		HousingUnitID: unit.ID,
		Status:        "active",
	}).Error)

	visitor := "Juan"
	record := &accessModel.Access{
		Kind:          accessModel.KindVisitWithoutQR,
		Outcome:       accessModel.OutcomeNotAuthorized,
		Reason:        "delivery",
		HousingUnitID: unit.ID,
		VisitorName:   &visitor,
		CreatedBy:     "system",
	}
	require.NoError(t, repository.NewAccessRepository(db).CreateAccess(record))
	return record
}

func serviceToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "gate-service",
	})
	signed, err := token.SignedString([]byte("sekret"))
	require.NoError(t, err)
	return signed
}

// A digit press must reach the durable row through the decision webhook
// even when the staff API runs behind the service token: the whole chain
// from gather callback to decision push is provider-facing and carries no
// bearer token.
func TestDigitDecisionReachesRowWithGuardedAPI(t *testing.T) {
	baseURL, db := startApp(t, true)
	record := seedAccess(t, db)

	client := &http.Client{Timeout: 5 * time.Second}

	form := url.Values{"Digits": {"1"}, "CallSid": {"CA1"}}
	resp, err := client.Post(
		baseURL+"/twilio/voice/handle-input?visitId=1",
		"application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()),
	)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Has autorizado")

	// Poll through the guarded API.
	req, err := http.NewRequest(http.MethodGet, baseURL+"/api/access/1/status", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+serviceToken(t))
	resp, err = client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope struct {
		Data struct {
			State      string `json:"state"`
			Finished   bool   `json:"finished"`
			CanProceed bool   `json:"canProceed"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "authorized", envelope.Data.State)
	assert.True(t, envelope.Data.Finished)
	assert.True(t, envelope.Data.CanProceed)

	loaded, err := repository.NewAccessRepository(db).GetAccessByID(record.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, accessModel.OutcomeAuthorized, loaded.Outcome)
}

func TestDecisionRouteIsPublic(t *testing.T) {
	baseURL, db := startApp(t, true)
	seedAccess(t, db)

	client := &http.Client{Timeout: 5 * time.Second}

	payload := strings.NewReader(`{"decision":"rejected","visitId":"1","digit":"2","callSid":"CA1"}`)
	resp, err := client.Post(baseURL+"/api/access/twilio-decision", "application/json", payload)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"decision push must not require the service token")
}

// Without a decision endpoint the digit webhook still answers its TwiML
// and the row simply stays pending; the drop is logged, never surfaced to
// the caller.
func TestDigitWithoutDecisionEndpointKeepsRowPending(t *testing.T) {
	baseURL, db := startApp(t, false)
	record := seedAccess(t, db)

	client := &http.Client{Timeout: 5 * time.Second}

	form := url.Values{"Digits": {"1"}, "CallSid": {"CA1"}}
	resp, err := client.Post(
		baseURL+"/twilio/voice/handle-input?visitId=1",
		"application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()),
	)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Has autorizado")

	loaded, err := repository.NewAccessRepository(db).GetAccessByID(record.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, accessModel.OutcomeNotAuthorized, loaded.Outcome)
	assert.Nil(t, loaded.Note)
}

func TestStaffRoutesStayGuarded(t *testing.T) {
	baseURL, db := startApp(t, true)
	seedAccess(t, db)

	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(baseURL + "/api/access/1/status")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = client.Post(baseURL+"/api/access/", "application/json",
		strings.NewReader(`{"housingUnitId":1,"reason":"visit"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
