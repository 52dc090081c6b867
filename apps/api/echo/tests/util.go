package tests

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/Aleguiojo777/Teacher-Portal/apps/api/echo"
	"github.com/Aleguiojo777/Teacher-Portal/core"
	"github.com/Aleguiojo777/Teacher-Portal/core/account"
	"github.com/Aleguiojo777/Teacher-Portal/core/attendance"
	"github.com/Aleguiojo777/Teacher-Portal/core/student"
	emailsvc "github.com/Aleguiojo777/Teacher-Portal/services/email"
	sqlxrepos "github.com/Aleguiojo777/Teacher-Portal/storage/database/sqlx"
	testutil "github.com/Aleguiojo777/Teacher-Portal/tests"
)

var (
	acctRepo    account.Repository
	studentRepo student.Repository
	attRepo     attendance.Repository

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
	errNotFound     = httpErr{Error: "not found"}
	errBadLogin     = httpErr{Error: "invalid email or password"}
)

func setup(t *testing.T) Server {
	t.Helper()

	// set up DB & repos
	db := testutil.PrepareDB(t)
	acctRepo = sqlxrepos.NewAccountRepository(db)
	studentRepo = sqlxrepos.NewStudentRepository(db)
	attRepo = sqlxrepos.NewAttendanceRepository(db)

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock()
	acctSvc := account.NewService(acctRepo)
	studentSvc := student.NewService(studentRepo)
	attendanceSvc := attendance.NewService(attRepo)

	// set up server
	return NewServer(
		&Options{
			DisableReqLogs: true,
			Logger:         core.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags)),
			MailSvc:        mailSvc,
			AccountSvc:     acctSvc,
			StudentSvc:     studentSvc,
			AttendanceSvc:  attendanceSvc,
		},
	)
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, acct account.Account) string {
	claims := GetAccountClaims(acct)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{} // a nil slice marshals to null, not []
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
