package models

import "testing"

func TestSettingMaskedValue(t *testing.T) {
	plain := Setting{Key: "app_name", Value: "CondutaMedX"}
	if plain.MaskedValue() != "CondutaMedX" {
		t.Fatalf("plain setting must return its value, got %q", plain.MaskedValue())
	}

	sensitive := Setting{Key: "mercado_pago_access_token", Value: "APP_USR-secret", IsSensitive: true}
	if sensitive.MaskedValue() != SensitiveValueMask {
		t.Fatalf("sensitive setting must be masked, got %q", sensitive.MaskedValue())
	}
}
