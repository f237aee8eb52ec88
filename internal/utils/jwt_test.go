package utils

import (
	"testing"

	"clinic-app-server/internal/config"
	"clinic-app-server/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:            "test-secret",
		JWTExpirationMinutes: 5,
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	user := &models.User{Role: models.RoleDoctor}
	user.ID = "doctor-1"

	token, err := GenerateToken(user, testConfig())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken(token, "test-secret")
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != "doctor-1" {
		t.Errorf("UserID = %q, want doctor-1", claims.UserID)
	}
	if claims.Role != models.RoleDoctor {
		t.Errorf("Role = %q, want doctor", claims.Role)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	user := &models.User{Role: models.RolePatient}
	user.ID = "patient-1"

	token, err := GenerateToken(user, testConfig())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := ValidateToken(token, "other-secret"); err == nil {
		t.Fatal("expected validation to fail with the wrong secret")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	if _, err := ValidateToken("not-a-token", "test-secret"); err == nil {
		t.Fatal("expected validation to fail for malformed input")
	}
}
