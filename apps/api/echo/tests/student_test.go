package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"

	. "github.com/Aleguiojo777/Teacher-Portal/apps/api/echo"
	"github.com/Aleguiojo777/Teacher-Portal/core"
	"github.com/Aleguiojo777/Teacher-Portal/core/student"
	testutil "github.com/Aleguiojo777/Teacher-Portal/tests"
)

func studentPath(id int) string { return "/api/students/" + strconv.Itoa(id) }

func Test_studentApi_query(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateAccount(t, acctRepo, "Head Admin", "head@test.cd", "Secret123!", true, true)
	teacher1 := testutil.CreateAccount(t, acctRepo, "Teacher One", "one@test.cd", "Secret123!", false, false)
	teacher2 := testutil.CreateAccount(t, acctRepo, "Teacher Two", "two@test.cd", "Secret123!", false, false)

	s1 := testutil.CreateStudent(t, studentRepo, "Alice", "Kali", "BSIT", "1A", &teacher1.ID)
	s2 := testutil.CreateStudent(t, studentRepo, "Bob", "Moke", "BSIT", "1A", &teacher1.ID)
	s3 := testutil.CreateStudent(t, studentRepo, "Carol", "Ilunga", "BSCS", "2B", &teacher2.ID)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin sees all", token: getToken(t, admin),
			wantCode: http.StatusOK, wantData: marchallList(t, s3, s2, s1),
		},
		{
			name: "Teacher sees own only", token: getToken(t, teacher1),
			wantCode: http.StatusOK, wantData: marchallList(t, s2, s1),
		},
		{
			name: "Other teacher sees own only", token: getToken(t, teacher2),
			wantCode: http.StatusOK, wantData: marchallList(t, s3),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/api/students", tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_studentApi_create(t *testing.T) {
	app := setup(t)

	teacher := testutil.CreateAccount(t, acctRepo, "Teacher One", "one@test.cd", "Secret123!", false, false)

	tests := []httpTest{
		{name: "Auth required", body: []byte(`{}`), wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "All fields required", token: getToken(t, teacher), body: []byte(`{"firstName": "Alice"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"lastName":  "this field is required",
				"contactNo": "this field is required",
				"course":    "this field is required",
				"section":   "this field is required",
			}),
		},
		{
			name: "Created", token: getToken(t, teacher),
			body:     []byte(`{"firstName": "Alice", "lastName": "Kali", "contactNo": "0991234567", "course": "BSIT", "section": "1A"}`),
			wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/api/students", tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusCreated {
				var s student.Student
				if err := json.Unmarshal(rec.Body.Bytes(), &s); err != nil {
					t.Fatalf("unmarshalling Student: %v", err)
				}
				if s.ID == 0 {
					t.Error("id = 0; want assigned")
				}
				if s.CreatedBy == nil || *s.CreatedBy != teacher.ID {
					t.Errorf("createdBy = %v; want %d", s.CreatedBy, teacher.ID)
				}
			}
		})
	}
}

// an expired token is rejected outright and causes no writes
func Test_studentApi_createExpiredToken(t *testing.T) {
	app := setup(t)

	teacher := testutil.CreateAccount(t, acctRepo, "Teacher One", "one@test.cd", "Secret123!", false, false)

	now := time.Now()
	expiredClaims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    core.Conf.AppName,
			Subject:   strconv.Itoa(teacher.ID),
			ExpiresAt: now.Add(-time.Hour).Unix(),
			IssuedAt:  now.Add(-core.Conf.Server.JWTExpirationDelta - time.Hour).Unix(),
		},
		Email: teacher.Email,
	}
	expiredToken, err := GenerateToken(expiredClaims)
	if err != nil {
		t.Fatalf("GenerateToken(): %v", err)
	}

	body := []byte(`{"firstName": "Alice", "lastName": "Kali", "contactNo": "0991234567", "course": "BSIT", "section": "1A"}`)
	req, rec := newAuthRequest(http.MethodPost, "/api/students", expiredToken, body)
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("code = %v; want %v", rec.Code, http.StatusUnauthorized)
	}
	students, err := studentRepo.QueryAllStudents(context.Background())
	if err != nil {
		t.Fatalf("QueryAllStudents(): %v", err)
	}
	if len(students) != 0 {
		t.Errorf("students = %d; want 0 (no side effects)", len(students))
	}
}

func Test_studentApi_retrieve(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateAccount(t, acctRepo, "Head Admin", "head@test.cd", "Secret123!", true, true)
	teacher1 := testutil.CreateAccount(t, acctRepo, "Teacher One", "one@test.cd", "Secret123!", false, false)
	teacher2 := testutil.CreateAccount(t, acctRepo, "Teacher Two", "two@test.cd", "Secret123!", false, false)

	s1 := testutil.CreateStudent(t, studentRepo, "Alice", "Kali", "BSIT", "1A", &teacher1.ID)

	tests := []httpTest{
		{name: "Auth required", path: studentPath(s1.ID), wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Owner sees student", path: studentPath(s1.ID), token: getToken(t, teacher1),
			wantCode: http.StatusOK, wantData: marchallObj(t, s1),
		},
		{
			name: "Admin sees student", path: studentPath(s1.ID), token: getToken(t, admin),
			wantCode: http.StatusOK, wantData: marchallObj(t, s1),
		},
		{
			// invisibility is indistinguishable from nonexistence
			name: "Other teacher gets 404", path: studentPath(s1.ID), token: getToken(t, teacher2),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound),
		},
		{
			name: "Unknown student", path: studentPath(1234), token: getToken(t, admin),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_studentApi_update(t *testing.T) {
	app := setup(t)

	teacher1 := testutil.CreateAccount(t, acctRepo, "Teacher One", "one@test.cd", "Secret123!", false, false)
	teacher2 := testutil.CreateAccount(t, acctRepo, "Teacher Two", "two@test.cd", "Secret123!", false, false)

	s1 := testutil.CreateStudent(t, studentRepo, "Alice", "Kali", "BSIT", "1A", &teacher1.ID)

	body := []byte(`{"firstName": "Alicia", "lastName": "Kali", "contactNo": "0997654321", "course": "BSIT", "section": "1B"}`)

	tests := []httpTest{
		{name: "Auth required", path: studentPath(s1.ID), body: body, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Other teacher gets 404", path: studentPath(s1.ID), token: getToken(t, teacher2),
			body: body, wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound),
		},
		{
			// the update always carries the full record
			name: "All fields required", path: studentPath(s1.ID), token: getToken(t, teacher1),
			body:     []byte(`{"firstName": "Alicia"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"lastName":  "this field is required",
				"contactNo": "this field is required",
				"course":    "this field is required",
				"section":   "this field is required",
			}),
		},
		{name: "Updated", path: studentPath(s1.ID), token: getToken(t, teacher1), body: body, wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPut, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.name == "Updated" {
				var s student.Student
				if err := json.Unmarshal(rec.Body.Bytes(), &s); err != nil {
					t.Fatalf("unmarshalling Student: %v", err)
				}
				if s.FirstName != "Alicia" || s.ContactNo != "0997654321" || s.Section != "1B" {
					t.Errorf("student = %+v; want updated fields", s)
				}
				if s.CreatedBy == nil || *s.CreatedBy != teacher1.ID {
					t.Errorf("createdBy = %v; want %d untouched", s.CreatedBy, teacher1.ID)
				}
			}
		})
	}
}

func Test_studentApi_destroy(t *testing.T) {
	app := setup(t)

	teacher1 := testutil.CreateAccount(t, acctRepo, "Teacher One", "one@test.cd", "Secret123!", false, false)
	teacher2 := testutil.CreateAccount(t, acctRepo, "Teacher Two", "two@test.cd", "Secret123!", false, false)

	s1 := testutil.CreateStudent(t, studentRepo, "Alice", "Kali", "BSIT", "1A", &teacher1.ID)
	testutil.SetRecord(t, attRepo, s1.ID, "2026-08-28", "Present", teacher1.ID)

	tests := []httpTest{
		{name: "Auth required", path: studentPath(s1.ID), wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Other teacher gets 404", path: studentPath(s1.ID), token: getToken(t, teacher2),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound),
		},
		{
			name: "Deleted", path: studentPath(s1.ID), token: getToken(t, teacher1),
			wantCode: http.StatusOK, wantData: marchallObj(t, MessageResponse{Message: "Student deleted successfully"}),
		},
		{
			name: "Gone", path: studentPath(s1.ID), token: getToken(t, teacher1),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodDelete, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// attendance rows cascade with the student
	recs, err := attRepo.QueryRecordsByDate(context.Background(), "2026-08-28", nil)
	if err != nil {
		t.Fatalf("QueryRecordsByDate(): %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("attendance records = %d; want 0 after cascade", len(recs))
	}
}
