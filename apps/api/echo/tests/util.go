package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-playground/validator/v10"

	. "github.com/trezcool/classplan/apps/api/echo"
	"github.com/trezcool/classplan/core"
	"github.com/trezcool/classplan/core/sequence"
	"github.com/trezcool/classplan/core/session"
	logsvc "github.com/trezcool/classplan/services/logger"
	sqlxrepos "github.com/trezcool/classplan/storage/database/sqlx"
	testutil "github.com/trezcool/classplan/tests"
)

type env struct {
	app      *Server
	seqSvc   *sequence.Service
	sessRepo session.Repository
}

func setup(t *testing.T) env {
	// set up DB & repos
	db := testutil.PrepareDB(t)
	sessRepo := sqlxrepos.NewSessionRepository(db)

	// set up services
	logger := logsvc.NewDiscardLogger()
	seqSvc := sequence.NewService(
		db,
		sqlxrepos.NewSequenceRepository(db),
		sqlxrepos.NewAssignmentRepository(db),
		sessRepo,
		logger,
	)
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	sequence.InitValidators(validate, translator)

	// set up server
	app := NewServer(ServerDeps{
		Conf:        &core.Config{AppName: "Classplan", TestMode: true},
		Logger:      logger,
		SequenceSvc: seqSvc,
		SessionSvc:  session.NewService(sessRepo),
		Validate:    validate,
		Translator:  translator,
	})
	return env{app: app, seqSvc: seqSvc, sessRepo: sessRepo}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	if method == "" {
		method = http.MethodGet
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

func (e env) do(t *testing.T, tt httpTest) *httptest.ResponseRecorder {
	req, rec := newRequest(tt.method, tt.path, tt.body)
	e.app.ServeHTTP(rec, req)
	return rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	wantCode := tt.wantCode
	if wantCode == 0 {
		wantCode = http.StatusOK
	}
	if rec.Code != wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
