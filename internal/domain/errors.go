package domain

import (
	"fmt"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: 400,
	}

	ErrUnauthorized = &AppError{
		Code:       "UNAUTHORIZED",
		Message:    "Please log in first",
		StatusCode: 401,
	}

	ErrValidationFailed = &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "Request validation failed",
		StatusCode: 422,
	}

	ErrAccountNotFound = &AppError{
		Code:       "ACCOUNT_NOT_FOUND",
		Message:    "No account found",
		StatusCode: 404,
	}

	ErrNoVerifiedAccount = &AppError{
		Code:       "NO_VERIFIED_ACCOUNT",
		Message:    "No verified account found with this email",
		StatusCode: 404,
	}

	ErrEmailExists = &AppError{
		Code:       "EMAIL_EXISTS",
		Message:    "Email already registered",
		StatusCode: 409,
	}

	ErrFaceExists = &AppError{
		Code:       "FACE_EXISTS",
		Message:    "Face already registered. Each person can only have one account",
		StatusCode: 409,
	}

	ErrInvalidImage = &AppError{
		Code:       "INVALID_IMAGE",
		Message:    "Invalid image format or corrupted file",
		StatusCode: 422,
	}

	ErrNoFaceDetected = &AppError{
		Code:       "NO_FACE_DETECTED",
		Message:    "No face detected in image. Please try again",
		StatusCode: 422,
	}

	ErrFaceMismatch = &AppError{
		Code:       "FACE_MISMATCH",
		Message:    "Face does not match",
		StatusCode: 401,
	}

	ErrNoFaceData = &AppError{
		Code:       "NO_FACE_DATA",
		Message:    "No face data found for this account",
		StatusCode: 422,
	}

	ErrAlreadyVerified = &AppError{
		Code:       "ALREADY_VERIFIED",
		Message:    "Account already activated",
		StatusCode: 409,
	}

	ErrOTPExpired = &AppError{
		Code:       "OTP_EXPIRED",
		Message:    "Verification code expired. Please request a new one",
		StatusCode: 401,
	}

	ErrOTPMismatch = &AppError{
		Code:       "OTP_MISMATCH",
		Message:    "Invalid verification code",
		StatusCode: 401,
	}

	ErrNoChallenge = &AppError{
		Code:       "NO_ACTIVE_CHALLENGE",
		Message:    "No pending verification. Please start over",
		StatusCode: 401,
	}

	ErrEmailDelivery = &AppError{
		Code:       "EMAIL_DELIVERY_FAILED",
		Message:    "Failed to send verification email",
		StatusCode: 502,
	}
)
