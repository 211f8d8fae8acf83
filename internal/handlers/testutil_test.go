package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"vivero-api/internal/database"
	"vivero-api/internal/mailer"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points the shared handle at a fresh in-memory database.
// The DSN is keyed by test name so parallel packages never share state.
// Foreign keys are enforced so the schema's cascade rules behave as
// they do under MySQL.
func setupTestDB(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	database.DB = db
	require.NoError(t, database.Migrate())
}

type sentMail struct {
	To          string
	Subject     string
	Body        string
	Attachments []mailer.Attachment
}

// stubMailer swaps the SMTP sender for an in-memory recorder so tests
// never touch the network.
func stubMailer(t *testing.T) *[]sentMail {
	t.Helper()
	var sent []sentMail
	old := mailer.Send
	mailer.Send = func(to, subject, body string, attachments ...mailer.Attachment) error {
		sent = append(sent, sentMail{To: to, Subject: subject, Body: body, Attachments: attachments})
		return nil
	}
	t.Cleanup(func() { mailer.Send = old })
	return &sent
}

// newRouter builds a bare router with the acting user pre-set, the way
// the auth middleware would after validating a token.
func newRouter(rut string) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("rut", rut)
		c.Set("role", "Administrador")
	})
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
