package server

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"portal/config"
	"portal/models"
	"portal/models/course"
	courseService "portal/services/course"
	"portal/services/notify"
	paymentService "portal/services/payment"
	"portal/testutil"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type envelope struct {
	Status  bool                   `json:"status"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

type result struct {
	Code   int
	Body   envelope
	Cookie string
}

type harness struct {
	t      *testing.T
	app    *fiber.App
	db     *gorm.DB
	mailer *notify.ConsoleMailer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db, mailer, _ := testutil.Setup(t)
	return &harness{t: t, app: New(), db: db, mailer: mailer}
}

func (h *harness) send(req *http.Request, token, cookie string) result {
	h.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	resp, err := h.app.Test(req, -1)
	require.NoError(h.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(h.t, err)

	var out result
	out.Code = resp.StatusCode
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), fiber.MIMEApplicationJSON) {
		require.NoError(h.t, sonic.Unmarshal(raw, &out.Body), string(raw))
	}
	for _, ck := range resp.Cookies() {
		if ck.Name == "session_id" {
			out.Cookie = ck.Name + "=" + ck.Value
		}
	}
	return out
}

func (h *harness) json(method, path string, body interface{}, token string) result {
	h.t.Helper()
	return h.jsonWithCookie(method, path, body, token, "")
}

func (h *harness) jsonWithCookie(method, path string, body interface{}, token, cookie string) result {
	h.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := sonic.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	return h.send(req, token, cookie)
}

func id(t *testing.T, v interface{}) uint {
	t.Helper()
	f, ok := v.(float64)
	require.True(t, ok, "expected numeric id, got %v", v)
	return uint(f)
}

func field(t *testing.T, m map[string]interface{}, key string) map[string]interface{} {
	t.Helper()
	v, ok := m[key].(map[string]interface{})
	require.True(t, ok, "expected object at %q, got %v", key, m[key])
	return v
}

func TestSignupLoginAndHistory(t *testing.T) {
	h := newHarness(t)

	res := h.json(http.MethodPost, "/auth/signup", fiber.Map{
		"username":         "newbie",
		"email":            "newbie@example.com",
		"password":         testutil.Password,
		"confirm_password": "different",
		"user_type":        "user",
	}, "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, res.Code)

	res = h.json(http.MethodPost, "/auth/signup", fiber.Map{
		"username":         "newbie",
		"email":            "newbie@example.com",
		"password":         testutil.Password,
		"confirm_password": testutil.Password,
		"user_type":        "employee",
	}, "")
	require.Equal(t, fiber.StatusCreated, res.Code, res.Body.Message)
	assert.Equal(t, "employee_dashboard", res.Body.Data["next"])
	assert.NotEmpty(t, res.Body.Data["token"])

	res = h.json(http.MethodPost, "/auth/signup", fiber.Map{
		"username":         "NEWBIE",
		"email":            "other@example.com",
		"password":         testutil.Password,
		"confirm_password": testutil.Password,
		"user_type":        "user",
	}, "")
	assert.Equal(t, fiber.StatusConflict, res.Code)

	res = h.json(http.MethodPost, "/auth/login", fiber.Map{"username": "newbie", "password": "nope"}, "")
	assert.Equal(t, fiber.StatusUnauthorized, res.Code)
	assert.Equal(t, "Invalid username or password.", res.Body.Message)

	res = h.json(http.MethodPost, "/auth/login", fiber.Map{"username": "newbie", "password": testutil.Password}, "")
	require.Equal(t, fiber.StatusOK, res.Code)
	token := "Bearer " + res.Body.Data["token"].(string)

	res = h.json(http.MethodGet, "/auth/login/history", nil, token)
	require.Equal(t, fiber.StatusOK, res.Code)
	assert.Equal(t, float64(2), field(t, res.Body.Data, "pagination")["total"])

	res = h.json(http.MethodGet, "/auth/login/history", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, res.Code)
}

func TestLockoutAndAdminUnlock(t *testing.T) {
	h := newHarness(t)
	user := testutil.CreateUser(t, h.db, "target", models.RoleUser)
	admin := testutil.CreateUser(t, h.db, "boss", models.RoleAdmin)

	for i := 0; i < 5; i++ {
		res := h.json(http.MethodPost, "/auth/login", fiber.Map{"username": "target", "password": "wrong"}, "")
		assert.Equal(t, fiber.StatusUnauthorized, res.Code)
	}

	res := h.json(http.MethodPost, "/auth/login", fiber.Map{"username": "target", "password": testutil.Password}, "")
	require.Equal(t, fiber.StatusLocked, res.Code)
	assert.NotNil(t, res.Body.Data["lockout_until"])

	res = h.json(http.MethodPost, fmt.Sprintf("/admin/users/%d/unlock", user.ID), nil, testutil.Token(t, user))
	assert.Equal(t, fiber.StatusForbidden, res.Code)

	res = h.json(http.MethodPost, fmt.Sprintf("/admin/users/%d/unlock", user.ID), nil, testutil.Token(t, admin))
	require.Equal(t, fiber.StatusOK, res.Code, res.Body.Message)

	res = h.json(http.MethodPost, "/auth/login", fiber.Map{"username": "target", "password": testutil.Password}, "")
	assert.Equal(t, fiber.StatusOK, res.Code)
}

func TestEmailTwoFactorLogin(t *testing.T) {
	h := newHarness(t)
	user := testutil.CreateUser(t, h.db, "careful", models.RoleUser)
	require.NoError(t, h.db.Model(user).Updates(map[string]interface{}{
		"two_factor_enabled": true,
		"two_factor_method":  models.TwoFactorEmail,
	}).Error)

	res := h.json(http.MethodPost, "/auth/2fa/verify", fiber.Map{"token": "123456"}, "")
	assert.Equal(t, fiber.StatusBadRequest, res.Code)
	assert.Equal(t, "No 2FA authentication in progress.", res.Body.Message)

	res = h.json(http.MethodPost, "/auth/login", fiber.Map{"username": "careful", "password": testutil.Password}, "")
	require.Equal(t, fiber.StatusOK, res.Code)
	assert.Equal(t, true, res.Body.Data["two_factor_required"])
	assert.Equal(t, "two_factor_challenge", res.Body.Data["next"])
	assert.Nil(t, res.Body.Data["token"])
	require.NotEmpty(t, res.Cookie)
	cookie := res.Cookie

	sent := h.mailer.Sent()
	require.Len(t, sent, 1)
	code := strings.Fields(strings.TrimPrefix(sent[0].Text, "Your verification code is "))[0]
	code = strings.TrimSuffix(code, ".")

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	res = h.jsonWithCookie(http.MethodPost, "/auth/2fa/verify", fiber.Map{"token": wrong}, "", cookie)
	assert.Equal(t, fiber.StatusUnauthorized, res.Code)

	res = h.jsonWithCookie(http.MethodPost, "/auth/2fa/verify", fiber.Map{"token": code}, "", cookie)
	require.Equal(t, fiber.StatusOK, res.Code, res.Body.Message)
	assert.NotEmpty(t, res.Body.Data["token"])

	res = h.jsonWithCookie(http.MethodPost, "/auth/2fa/verify", fiber.Map{"token": code}, "", cookie)
	assert.Equal(t, fiber.StatusBadRequest, res.Code)
}

func TestJobQuizApplicationFlow(t *testing.T) {
	h := newHarness(t)
	employee := testutil.CreateUser(t, h.db, "recruiter", models.RoleEmployee)
	seeker := testutil.CreateUser(t, h.db, "seeker", models.RoleUser)
	empToken, userToken := testutil.Token(t, employee), testutil.Token(t, seeker)

	res := h.json(http.MethodPost, "/employee/jobs", fiber.Map{"title": "Go Developer"}, userToken)
	assert.Equal(t, fiber.StatusForbidden, res.Code)

	res = h.json(http.MethodPost, "/employee/jobs", fiber.Map{
		"title":            "Go Developer",
		"company":          "Acme",
		"location":         "Berlin",
		"job_type":         models.JobTypeFullTime,
		"experience_level": models.ExperienceMid,
		"work_mode":        models.WorkModeRemote,
		"description":      "Write Go services",
		"skills_required":  []string{"go", "sql"},
	}, empToken)
	require.Equal(t, fiber.StatusCreated, res.Code, res.Body.Message)
	jobID := id(t, field(t, res.Body.Data, "job")["ID"])

	res = h.json(http.MethodPost, fmt.Sprintf("/employee/jobs/%d/publish", jobID), nil, empToken)
	assert.Equal(t, fiber.StatusConflict, res.Code)

	res = h.json(http.MethodPost, fmt.Sprintf("/employee/jobs/%d/quiz-builder", jobID), fiber.Map{
		"passing_score": 50,
		"questions": []fiber.Map{{
			"text": "2 + 2?",
			"choices": []fiber.Map{
				{"text": "4", "is_correct": true},
				{"text": "5"},
			},
		}},
	}, empToken)
	require.Equal(t, fiber.StatusCreated, res.Code, res.Body.Message)
	assert.Equal(t, "Quiz for Go Developer", field(t, res.Body.Data, "quiz")["title"])

	res = h.json(http.MethodGet, "/jobs?location=remote", nil, "")
	require.Equal(t, fiber.StatusOK, res.Code)
	assert.Len(t, res.Body.Data["jobs"], 1)

	res = h.json(http.MethodPost, fmt.Sprintf("/jobs/%d/apply", jobID), nil, userToken)
	require.Equal(t, fiber.StatusOK, res.Code, res.Body.Message)
	assert.Equal(t, "take_quiz", res.Body.Data["next"])
	attemptID := id(t, res.Body.Data["attempt_id"])

	res = h.json(http.MethodGet, fmt.Sprintf("/quiz/attempt/%d/result", attemptID), nil, userToken)
	assert.Equal(t, fiber.StatusConflict, res.Code)
	assert.Equal(t, "take_quiz", res.Body.Data["next"])

	res = h.json(http.MethodGet, fmt.Sprintf("/quiz/attempt/%d", attemptID), nil, userToken)
	require.Equal(t, fiber.StatusOK, res.Code)
	question := field(t, res.Body.Data, "question")
	var choiceID uint
	for _, ch := range question["choices"].([]interface{}) {
		choice := ch.(map[string]interface{})
		_, leaked := choice["is_correct"]
		assert.False(t, leaked)
		if choice["text"] == "4" {
			choiceID = id(t, choice["id"])
		}
	}
	require.NotZero(t, choiceID)

	res = h.json(http.MethodGet, fmt.Sprintf("/quiz/attempt/%d", attemptID), nil, empToken)
	assert.Equal(t, fiber.StatusNotFound, res.Code)

	res = h.json(http.MethodPost, fmt.Sprintf("/quiz/attempt/%d", attemptID), fiber.Map{
		"question_id": id(t, question["id"]),
		"choice_id":   choiceID,
	}, userToken)
	require.Equal(t, fiber.StatusOK, res.Code, res.Body.Message)
	assert.Equal(t, "quiz_result", res.Body.Data["next"])
	assert.Equal(t, float64(100), res.Body.Data["score"])
	assert.Equal(t, true, res.Body.Data["passed"])

	res = h.json(http.MethodGet, fmt.Sprintf("/quiz/attempt/%d/result", attemptID), nil, userToken)
	require.Equal(t, fiber.StatusOK, res.Code)
	assert.Equal(t, float64(1), res.Body.Data["correct_answers"])
	assert.Equal(t, float64(1), res.Body.Data["total_questions"])

	res = h.json(http.MethodGet, "/jobs/applications", nil, userToken)
	require.Equal(t, fiber.StatusOK, res.Code)
	apps := res.Body.Data["applications"].([]interface{})
	require.Len(t, apps, 1)
	assert.Equal(t, models.ApplicationSubmitted, apps[0].(map[string]interface{})["status"])

	res = h.json(http.MethodGet, "/dashboard/me", nil, userToken)
	require.Equal(t, fiber.StatusOK, res.Code)
	assert.Equal(t, float64(1), res.Body.Data["jobs_applied"])
	assert.Equal(t, float64(1), res.Body.Data["quizzes_passed"])

	res = h.json(http.MethodGet, "/employee/dashboard", nil, empToken)
	require.Equal(t, fiber.StatusOK, res.Code)
	assert.Equal(t, float64(1), res.Body.Data["active_jobs_count"])
	weekly := field(t, res.Body.Data, "weekly_attempts")
	assert.Len(t, weekly["labels"], 8)
}

func TestStandaloneQuizRetake(t *testing.T) {
	h := newHarness(t)
	employee := testutil.CreateUser(t, h.db, "author", models.RoleEmployee)
	taker := testutil.CreateUser(t, h.db, "taker", models.RoleUser)
	token := testutil.Token(t, taker)

	res := h.json(http.MethodPost, "/employee/quizzes", fiber.Map{
		"title":     "Trivia",
		"questions": []fiber.Map{{"text": "Sky colour?", "choices": []fiber.Map{{"text": "blue", "is_correct": true}, {"text": "green"}}}},
	}, testutil.Token(t, employee))
	require.Equal(t, fiber.StatusCreated, res.Code, res.Body.Message)
	quizID := id(t, field(t, res.Body.Data, "quiz")["ID"])

	res = h.json(http.MethodGet, "/quizzes", nil, "")
	require.Equal(t, fiber.StatusOK, res.Code)
	assert.Len(t, res.Body.Data["quizzes"], 1)

	res = h.json(http.MethodPost, fmt.Sprintf("/quizzes/%d/start", quizID), nil, token)
	require.Equal(t, fiber.StatusCreated, res.Code)
	attemptID := id(t, field(t, res.Body.Data, "attempt")["ID"])

	res = h.json(http.MethodGet, fmt.Sprintf("/quiz/attempt/%d", attemptID), nil, token)
	require.Equal(t, fiber.StatusOK, res.Code)
	question := field(t, res.Body.Data, "question")
	var wrongID uint
	for _, ch := range question["choices"].([]interface{}) {
		if choice := ch.(map[string]interface{}); choice["text"] == "green" {
			wrongID = id(t, choice["id"])
		}
	}

	res = h.json(http.MethodPost, fmt.Sprintf("/quiz/attempt/%d", attemptID), fiber.Map{"question_id": id(t, question["id"])}, token)
	assert.Equal(t, fiber.StatusBadRequest, res.Code)

	res = h.json(http.MethodPost, fmt.Sprintf("/quiz/attempt/%d", attemptID), fiber.Map{
		"question_id": id(t, question["id"]),
		"choice_id":   wrongID,
	}, token)
	require.Equal(t, fiber.StatusOK, res.Code)
	assert.Equal(t, float64(0), res.Body.Data["score"])

	res = h.json(http.MethodGet, fmt.Sprintf("/quizzes/%d", quizID), nil, token)
	require.Equal(t, fiber.StatusOK, res.Code)
	assert.NotNil(t, res.Body.Data["previous_attempt"])

	res = h.json(http.MethodPost, fmt.Sprintf("/quizzes/%d/start", quizID), nil, token)
	require.Equal(t, fiber.StatusCreated, res.Code)
	assert.Equal(t, "take_quiz", res.Body.Data["next"])
	assert.Nil(t, field(t, res.Body.Data, "attempt")["completed_at"])
}

func TestCourseEnrollLearnAndPay(t *testing.T) {
	h := newHarness(t)
	admin := testutil.CreateUser(t, h.db, "dean", models.RoleAdmin)
	student := testutil.CreateUser(t, h.db, "student", models.RoleUser)
	adminToken, token := testutil.Token(t, admin), testutil.Token(t, student)

	res := h.json(http.MethodPost, "/course-admin/categories", fiber.Map{"name": "Programming"}, token)
	assert.Equal(t, fiber.StatusForbidden, res.Code)

	res = h.json(http.MethodPost, "/course-admin/categories", fiber.Map{"name": "Programming"}, adminToken)
	require.Equal(t, fiber.StatusCreated, res.Code, res.Body.Message)
	categoryID := id(t, field(t, res.Body.Data, "category")["ID"])

	res = h.json(http.MethodPost, "/course-admin/categories", fiber.Map{"name": "programming"}, adminToken)
	assert.Equal(t, fiber.StatusConflict, res.Code)

	res = h.json(http.MethodPost, "/course-admin/courses", fiber.Map{
		"title":          "Go 101",
		"description":    "Learn Go from scratch",
		"instructor":     "Rob",
		"price":          100,
		"category_id":    categoryID,
		"skills_covered": "go, testing",
	}, adminToken)
	require.Equal(t, fiber.StatusCreated, res.Code, res.Body.Message)
	courseID := id(t, field(t, res.Body.Data, "course")["ID"])

	for i, title := range []string{"Intro", "Types"} {
		res = h.json(http.MethodPost, fmt.Sprintf("/course-admin/courses/%d/lessons", courseID), fiber.Map{
			"title": title, "order": i + 1,
		}, adminToken)
		require.Equal(t, fiber.StatusCreated, res.Code, res.Body.Message)
	}

	res = h.json(http.MethodGet, "/courses?difficulty=beginner&q=go", nil, "")
	require.Equal(t, fiber.StatusOK, res.Code)
	assert.Len(t, res.Body.Data["courses"], 1)

	res = h.json(http.MethodGet, "/courses?tab=my_courses", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, res.Code)

	res = h.json(http.MethodPost, fmt.Sprintf("/courses/%d/pay", courseID), nil, token)
	assert.Equal(t, fiber.StatusForbidden, res.Code)

	res = h.json(http.MethodPost, fmt.Sprintf("/courses/%d/enroll", courseID), nil, token)
	require.Equal(t, fiber.StatusCreated, res.Code, res.Body.Message)
	enrollmentID := id(t, field(t, res.Body.Data, "enrollment")["ID"])

	res = h.json(http.MethodPost, fmt.Sprintf("/courses/%d/enroll", courseID), nil, token)
	require.Equal(t, fiber.StatusOK, res.Code)
	assert.Equal(t, "You are already enrolled in Go 101", res.Body.Message)

	res = h.json(http.MethodGet, fmt.Sprintf("/courses/%d/continue", courseID), nil, token)
	require.Equal(t, fiber.StatusOK, res.Code)
	lesson := field(t, res.Body.Data, "lesson")
	assert.Equal(t, "Intro", lesson["title"])
	lessonID := id(t, lesson["ID"])

	res = h.json(http.MethodPost, fmt.Sprintf("/enrollment/%d/lesson/%d/complete", enrollmentID, lessonID), nil, token)
	require.Equal(t, fiber.StatusOK, res.Code, res.Body.Message)

	res = h.json(http.MethodPost, fmt.Sprintf("/enrollment/%d/lesson/%d/complete", enrollmentID, lessonID), nil, testutil.Token(t, admin))
	assert.NotEqual(t, fiber.StatusOK, res.Code)

	res = h.json(http.MethodGet, fmt.Sprintf("/courses/%d/continue", courseID), nil, token)
	require.Equal(t, fiber.StatusOK, res.Code)
	assert.Equal(t, "Types", field(t, res.Body.Data, "lesson")["title"])

	res = h.json(http.MethodGet, fmt.Sprintf("/courses/%d/checkout", courseID), nil, token)
	require.Equal(t, fiber.StatusOK, res.Code)
	pricing := field(t, res.Body.Data, "pricing")
	assert.Equal(t, float64(15), pricing["tax"])
	assert.Equal(t, float64(115), pricing["total"])

	res = h.json(http.MethodPost, fmt.Sprintf("/courses/%d/pay", courseID), nil, token)
	require.Equal(t, fiber.StatusOK, res.Code, res.Body.Message)
	assert.Equal(t, "course_detail", res.Body.Data["next"])

	var enrollment course.Enrollment
	require.NoError(t, h.db.First(&enrollment, enrollmentID).Error)
	assert.True(t, enrollment.IsPaid)

	res = h.json(http.MethodPost, fmt.Sprintf("/courses/%d/pay", courseID), nil, token)
	assert.Equal(t, fiber.StatusConflict, res.Code)

	res = h.json(http.MethodGet, "/courses?tab=my_courses", nil, token)
	require.Equal(t, fiber.StatusOK, res.Code)
	assert.NotNil(t, res.Body.Data["my_courses"])
}

func TestPaymentNotificationSignature(t *testing.T) {
	h := newHarness(t)
	config.AppConfig.MidtransServerKey = "SB-Mid-server-test"
	student := testutil.CreateUser(t, h.db, "buyer", models.RoleUser)

	crs, err := courseService.CreateCourse(h.db, courseService.CourseInput{Title: "Paid Go", Price: 5000})
	require.NoError(t, err)
	enrollment, _, err := courseService.Enroll(h.db, student, crs.ID, time.Now())
	require.NoError(t, err)
	payment := models.Payment{
		OrderID: "order-1", UserID: student.ID, EnrollmentID: enrollment.ID,
		Amount: 5000, Total: 5000, Gateway: "midtrans", Status: models.PaymentPending,
	}
	require.NoError(t, h.db.Create(&payment).Error)

	notification := func(orderID, status, signature string) fiber.Map {
		return fiber.Map{
			"order_id":           orderID,
			"transaction_status": status,
			"status_code":        "200",
			"gross_amount":       "5000.00",
			"signature_key":      signature,
		}
	}
	sign := func(orderID string) string {
		return paymentService.SignatureKey(orderID, "200", "5000.00", config.AppConfig.MidtransServerKey)
	}

	res := h.json(http.MethodPost, "/payments/notification", notification("order-1", "settlement", ""), "")
	assert.Equal(t, fiber.StatusForbidden, res.Code)
	res = h.json(http.MethodPost, "/payments/notification", notification("order-1", "settlement", strings.Repeat("0", 128)), "")
	assert.Equal(t, fiber.StatusForbidden, res.Code)

	var stored course.Enrollment
	require.NoError(t, h.db.First(&stored, enrollment.ID).Error)
	assert.False(t, stored.IsPaid)

	res = h.json(http.MethodPost, "/payments/notification", notification("missing", "settlement", sign("missing")), "")
	assert.Equal(t, fiber.StatusNotFound, res.Code)

	res = h.json(http.MethodPost, "/payments/notification", fiber.Map{"order_id": "order-1"}, "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, res.Code)

	res = h.json(http.MethodPost, "/payments/notification", notification("order-1", "settlement", sign("order-1")), "")
	require.Equal(t, fiber.StatusOK, res.Code, res.Body.Message)
	assert.Equal(t, models.PaymentPaid, res.Body.Data["status"])

	var paid course.Enrollment
	require.NoError(t, h.db.First(&paid, enrollment.ID).Error)
	assert.True(t, paid.IsPaid)
}

func TestAdminUserManagement(t *testing.T) {
	h := newHarness(t)
	admin := testutil.CreateUser(t, h.db, "root", models.RoleAdmin)
	user := testutil.CreateUser(t, h.db, "member", models.RoleUser)
	token := testutil.Token(t, admin)

	res := h.json(http.MethodGet, "/admin/dashboard", nil, token)
	require.Equal(t, fiber.StatusOK, res.Code)
	assert.Equal(t, float64(2), res.Body.Data["total_users"])

	res = h.json(http.MethodGet, "/admin/users?q=MEM", nil, token)
	require.Equal(t, fiber.StatusOK, res.Code)
	assert.Len(t, res.Body.Data["users"], 1)

	res = h.json(http.MethodPost, fmt.Sprintf("/admin/users/%d/toggle", user.ID), nil, token)
	require.Equal(t, fiber.StatusOK, res.Code)
	assert.Equal(t, "User member has been blocked.", res.Body.Message)

	res = h.json(http.MethodPost, "/auth/login", fiber.Map{"username": "member", "password": testutil.Password}, "")
	assert.Equal(t, fiber.StatusForbidden, res.Code)

	res = h.json(http.MethodPost, fmt.Sprintf("/admin/users/%d/toggle", user.ID), nil, token)
	require.Equal(t, fiber.StatusOK, res.Code)
	assert.Equal(t, "User member has been unblocked.", res.Body.Message)

	res = h.json(http.MethodPost, fmt.Sprintf("/admin/users/%d/toggle", admin.ID), nil, token)
	assert.Equal(t, fiber.StatusBadRequest, res.Code)

	res = h.json(http.MethodPost, "/admin/users/9999/toggle", nil, token)
	assert.Equal(t, fiber.StatusNotFound, res.Code)

	res = h.json(http.MethodPost, "/admin/users/abc/toggle", nil, token)
	assert.Equal(t, fiber.StatusBadRequest, res.Code)
}

func TestProfilePictureUpload(t *testing.T) {
	h := newHarness(t)
	user := testutil.CreateUser(t, h.db, "painter", models.RoleUser)
	token := testutil.Token(t, user)

	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 1000, 500))))

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("profile_picture", "me.png")
	require.NoError(t, err)
	_, err = part.Write(img.Bytes())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/profile/picture", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	res := h.send(req, token, "")
	require.Equal(t, fiber.StatusOK, res.Code, res.Body.Message)

	var profile models.UserProfile
	require.NoError(t, h.db.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.NotEmpty(t, profile.ProfilePicture)

	res = h.json(http.MethodGet, "/profile/painter", nil, token)
	require.Equal(t, fiber.StatusOK, res.Code)

	res = h.json(http.MethodGet, "/profile/resume", nil, token)
	assert.Equal(t, fiber.StatusNotFound, res.Code)
	assert.Equal(t, "No resume uploaded yet.", res.Body.Message)
}

func TestProfileSectionsAndPrivateResume(t *testing.T) {
	h := newHarness(t)
	user := testutil.CreateUser(t, h.db, "writer", models.RoleUser)
	viewer := testutil.CreateUser(t, h.db, "reader", models.RoleUser)
	token := testutil.Token(t, user)

	res := h.json(http.MethodPost, "/profile/sections/skill", fiber.Map{"name": "Go", "percentage": 70}, token)
	require.Equal(t, fiber.StatusCreated, res.Code, res.Body.Message)
	res = h.json(http.MethodPost, "/profile/sections/skill", fiber.Map{"name": "SQL", "percentage": 95}, token)
	require.Equal(t, fiber.StatusCreated, res.Code, res.Body.Message)
	sqlID := id(t, field(t, res.Body.Data, "entry")["ID"])

	res = h.json(http.MethodPost, "/profile/sections/experience", fiber.Map{
		"title": "Engineer", "company": "Acme", "start_date": "2020-02-01",
	}, token)
	require.Equal(t, fiber.StatusCreated, res.Code, res.Body.Message)

	res = h.json(http.MethodPost, "/profile/sections/experience", fiber.Map{
		"title": "Engineer", "company": "Acme", "start_date": "02/01/2020",
	}, token)
	assert.Equal(t, fiber.StatusUnprocessableEntity, res.Code)

	res = h.json(http.MethodPost, "/profile/sections/skill", fiber.Map{"name": "Go", "percentage": 120}, token)
	assert.Equal(t, fiber.StatusUnprocessableEntity, res.Code)

	res = h.json(http.MethodPost, "/profile/sections/hobby", fiber.Map{"name": "chess"}, token)
	assert.Equal(t, fiber.StatusNotFound, res.Code)

	res = h.json(http.MethodGet, "/profile/writer", nil, testutil.Token(t, viewer))
	require.Equal(t, fiber.StatusOK, res.Code)
	skills, ok := res.Body.Data["skills"].([]interface{})
	require.True(t, ok)
	require.Len(t, skills, 2)
	assert.Equal(t, "SQL", skills[0].(map[string]interface{})["name"])
	assert.Len(t, res.Body.Data["experiences"], 1)
	assert.Len(t, res.Body.Data["certificates"], 0)

	res = h.json(http.MethodDelete, fmt.Sprintf("/profile/sections/skill/%d", sqlID), nil, testutil.Token(t, viewer))
	assert.Equal(t, fiber.StatusNotFound, res.Code)
	res = h.json(http.MethodDelete, fmt.Sprintf("/profile/sections/skill/%d", sqlID), nil, token)
	require.Equal(t, fiber.StatusOK, res.Code)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("resume", "cv.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 resume"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/profile/resume", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	res = h.send(req, token, "")
	require.Equal(t, fiber.StatusOK, res.Code, res.Body.Message)

	var profile models.UserProfile
	require.NoError(t, h.db.Where("user_id = ?", user.ID).First(&profile).Error)
	require.NotEmpty(t, profile.Resume)

	res = h.json(http.MethodGet, "/uploads/resumes/"+filepath.Base(profile.Resume), nil, "")
	assert.Equal(t, fiber.StatusNotFound, res.Code)

	resp, err := h.app.Test(func() *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/profile/resume", nil)
		r.Header.Set("Authorization", token)
		return r
	}(), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 resume", string(data))
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	h := newHarness(t)

	res := h.json(http.MethodGet, "/nope-"+time.Now().Format("150405"), nil, "")
	assert.Equal(t, fiber.StatusNotFound, res.Code)
	assert.False(t, res.Body.Status)
}
