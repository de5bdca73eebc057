package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
)

// RegisterResponse represents a successful sign-up
type RegisterResponse struct {
	AccountID int64  `json:"account_id" example:"42"`
	Message   string `json:"message" example:"Account created. Check your email for the activation code."`
}

// MessageResponse is the generic confirmation payload
type MessageResponse struct {
	Message string `json:"message" example:"Signed in."`
}

// ProfileResponse represents the session holder's account
type ProfileResponse struct {
	ID          int64  `json:"id" example:"42"`
	Name        string `json:"name" example:"Ana Souza"`
	Email       string `json:"email" example:"ana@example.com"`
	CreatedAt   string `json:"created_at" example:"2024-01-01T00:00:00Z"`
	LastLoginAt string `json:"last_login_at,omitempty" example:"2024-01-02T09:30:00Z"`
}

// LoginRecordData is one security-report entry
type LoginRecordData struct {
	AttemptedAt   string  `json:"attempted_at" example:"2024-01-02T09:30:00Z"`
	Success       bool    `json:"success" example:"true"`
	Similarity    float64 `json:"similarity,omitempty" example:"0.91"`
	IP            string  `json:"ip,omitempty" example:"203.0.113.9"`
	UserAgent     string  `json:"user_agent,omitempty" example:"Mozilla/5.0"`
	FailureReason string  `json:"failure_reason,omitempty" example:"face_mismatch"`
}

// SecurityReportResponse lists recent login attempts, newest first
type SecurityReportResponse struct {
	Attempts []LoginRecordData `json:"attempts"`
}

// ActivateRequest carries the activation code issued at sign-up
type ActivateRequest struct {
	AccountID int64  `json:"account_id" example:"42"`
	Code      string `json:"code" example:"123456"`
}

// CodeRequest carries a confirmation code for a pending challenge
type CodeRequest struct {
	Code string `json:"code" example:"123456"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
}

// HealthResponse represents service health
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Version string `json:"version,omitempty" example:"0.1.0"`
}

func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "Facegate API",
		Version:     "v1.0.0",
		Description: "Biometric sign-up and sign-in: face-embedding authentication with email OTP confirmation",
		Host:        "localhost:3000",
		Path:        "/v1",
	})

	multipart := []mime.MIME{mime.MIME("multipart/form-data")}
	jsonOnly := []mime.MIME{mime.JSON}

	endpoints := []*endpoint.EndPoint{
		// POST /v1/auth/register
		endpoint.New(
			endpoint.POST,
			"/auth/register",
			endpoint.WithTags("Auth"),
			endpoint.WithSummary("Create an account"),
			endpoint.WithDescription("Registers a new account from name, email, password and a face photo. The face must not already be enrolled. An activation code is mailed; the account stays unusable until activated."),
			endpoint.WithConsume(multipart),
			endpoint.WithProduce(jsonOnly),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(RegisterResponse{}, "201", "Account created"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "EMAIL_EXISTS", Message: "Email already registered"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "FACE_EXISTS", Message: "Face already registered"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "NO_FACE_DETECTED", Message: "No face detected in image"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "EMAIL_DELIVERY_FAILED", Message: "Failed to send verification email"}, "502", "Bad Gateway"),
			}),
		),

		// POST /v1/auth/activate
		endpoint.New(
			endpoint.POST,
			"/auth/activate",
			endpoint.WithTags("Auth"),
			endpoint.WithSummary("Activate an account"),
			endpoint.WithDescription("Consumes the mailed activation code and marks the account verified."),
			endpoint.WithConsume(jsonOnly),
			endpoint.WithProduce(jsonOnly),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(MessageResponse{}, "200", "Account activated"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "ACCOUNT_NOT_FOUND", Message: "No account found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "ALREADY_VERIFIED", Message: "Account already activated"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "OTP_EXPIRED", Message: "Verification code expired"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "OTP_MISMATCH", Message: "Invalid verification code"}, "401", "Unauthorized"),
			}),
		),

		// POST /v1/auth/login
		endpoint.New(
			endpoint.POST,
			"/auth/login",
			endpoint.WithTags("Auth"),
			endpoint.WithSummary("Sign in, step one: face match"),
			endpoint.WithDescription("Matches the submitted face photo against the account's enrolled face. On a match a confirmation code is mailed; the session is not signed in yet."),
			endpoint.WithConsume(multipart),
			endpoint.WithProduce(jsonOnly),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(MessageResponse{}, "200", "Code mailed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "NO_VERIFIED_ACCOUNT", Message: "No verified account found with this email"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "FACE_MISMATCH", Message: "Face does not match"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "NO_FACE_DETECTED", Message: "No face detected in image"}, "422", "Unprocessable Entity"),
			}),
		),

		// POST /v1/auth/login/verify-otp
		endpoint.New(
			endpoint.POST,
			"/auth/login/verify-otp",
			endpoint.WithTags("Auth"),
			endpoint.WithSummary("Sign in, step two: confirm the mailed code"),
			endpoint.WithDescription("Consumes the pending login code and binds the account to the session."),
			endpoint.WithConsume(jsonOnly),
			endpoint.WithProduce(jsonOnly),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(MessageResponse{}, "200", "Signed in"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "NO_ACTIVE_CHALLENGE", Message: "No pending verification"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "OTP_EXPIRED", Message: "Verification code expired"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "OTP_MISMATCH", Message: "Invalid verification code"}, "401", "Unauthorized"),
			}),
		),

		// POST /v1/auth/logout
		endpoint.New(
			endpoint.POST,
			"/auth/logout",
			endpoint.WithTags("Auth"),
			endpoint.WithSummary("Sign out"),
			endpoint.WithProduce(jsonOnly),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(MessageResponse{}, "200", "Signed out"),
			}),
		),

		// GET /v1/me
		endpoint.New(
			endpoint.GET,
			"/me",
			endpoint.WithTags("Account"),
			endpoint.WithSummary("Current account profile"),
			endpoint.WithProduce(jsonOnly),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ProfileResponse{}, "200", "Profile"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Please log in first"}, "401", "Unauthorized"),
			}),
		),

		// GET /v1/me/security-report
		endpoint.New(
			endpoint.GET,
			"/me/security-report",
			endpoint.WithTags("Account"),
			endpoint.WithSummary("Recent login attempts"),
			endpoint.WithDescription("Lists the 50 most recent login attempts against the account, newest first, including failures with their reason and similarity."),
			endpoint.WithProduce(jsonOnly),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SecurityReportResponse{}, "200", "Report"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Please log in first"}, "401", "Unauthorized"),
			}),
		),

		// POST /v1/me/face/update-request
		endpoint.New(
			endpoint.POST,
			"/me/face/update-request",
			endpoint.WithTags("Account"),
			endpoint.WithSummary("Request a face update"),
			endpoint.WithDescription("Validates the new photo and mails a confirmation code. Nothing changes until the code is confirmed."),
			endpoint.WithConsume(multipart),
			endpoint.WithProduce(jsonOnly),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(MessageResponse{}, "200", "Code mailed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "NO_FACE_DETECTED", Message: "No face detected in image"}, "422", "Unprocessable Entity"),
			}),
		),

		// POST /v1/me/face/update-confirm
		endpoint.New(
			endpoint.POST,
			"/me/face/update-confirm",
			endpoint.WithTags("Account"),
			endpoint.WithSummary("Confirm a face update"),
			endpoint.WithConsume(jsonOnly),
			endpoint.WithProduce(jsonOnly),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(MessageResponse{}, "200", "Face updated"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "NO_ACTIVE_CHALLENGE", Message: "No pending verification"}, "401", "Unauthorized"),
			}),
		),

		// POST /v1/me/delete-request
		endpoint.New(
			endpoint.POST,
			"/me/delete-request",
			endpoint.WithTags("Account"),
			endpoint.WithSummary("Request account deletion"),
			endpoint.WithProduce(jsonOnly),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(MessageResponse{}, "200", "Code mailed"),
			}),
		),

		// POST /v1/me/delete-confirm
		endpoint.New(
			endpoint.POST,
			"/me/delete-confirm",
			endpoint.WithTags("Account"),
			endpoint.WithSummary("Confirm account deletion"),
			endpoint.WithDescription("Consumes the deletion code, removes the account, its photo and its login history, and ends every session."),
			endpoint.WithConsume(jsonOnly),
			endpoint.WithProduce(jsonOnly),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(MessageResponse{}, "200", "Account deleted"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "NO_ACTIVE_CHALLENGE", Message: "No pending verification"}, "401", "Unauthorized"),
			}),
		),

		// GET /health
		endpoint.New(
			endpoint.GET,
			"/health",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Liveness"),
			endpoint.WithProduce(jsonOnly),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthResponse{}, "200", "OK"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
