package service

import (
	"errors"
	"testing"

	"github.com/bazaar-next/internal/config"
	"github.com/bazaar-next/internal/constants"
)

func TestCaptchaServiceDisabledScenesPass(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{Provider: "none"})
	if svc.IsSceneEnabled(constants.CaptchaSceneGuestCreateOrder) {
		t.Fatalf("expected scene disabled without provider")
	}
	if err := svc.Verify(constants.CaptchaSceneGuestCreateOrder, CaptchaVerifyPayload{}); err != nil {
		t.Fatalf("expected verify pass when disabled, got %v", err)
	}
	if _, err := svc.GenerateImageChallenge(); !errors.Is(err, ErrCaptchaConfigInvalid) {
		t.Fatalf("expected config invalid when provider none, got %v", err)
	}

	var nilSvc *CaptchaService
	if nilSvc.Provider() != constants.CaptchaProviderNone {
		t.Fatalf("expected nil service to report none")
	}
}

func TestCaptchaServiceImageFlow(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{
		Provider: "IMAGE",
		Scenes:   config.CaptchaSceneConfig{GuestCreateOrder: true},
	})
	if svc.Provider() != constants.CaptchaProviderImage {
		t.Fatalf("unexpected provider: %s", svc.Provider())
	}
	if svc.IsSceneEnabled(constants.CaptchaSceneTrackOrder) {
		t.Fatalf("track scene should stay disabled")
	}

	if err := svc.Verify(constants.CaptchaSceneGuestCreateOrder, CaptchaVerifyPayload{}); !errors.Is(err, ErrCaptchaRequired) {
		t.Fatalf("expected captcha required, got %v", err)
	}

	challenge, err := svc.GenerateImageChallenge()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if challenge.CaptchaID == "" || challenge.ImageBase64 == "" {
		t.Fatalf("unexpected challenge: %+v", challenge)
	}
	answer := svc.ensureImageStore().Get(challenge.CaptchaID, false)
	if len(answer) != 5 {
		t.Fatalf("expected default length 5, got %q", answer)
	}

	if err := svc.Verify(constants.CaptchaSceneGuestCreateOrder, CaptchaVerifyPayload{
		CaptchaID:   challenge.CaptchaID,
		CaptchaCode: "wrong",
	}); !errors.Is(err, ErrCaptchaInvalid) {
		t.Fatalf("expected captcha invalid, got %v", err)
	}

	second, err := svc.GenerateImageChallenge()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	code := svc.ensureImageStore().Get(second.CaptchaID, false)
	if err := svc.Verify(constants.CaptchaSceneGuestCreateOrder, CaptchaVerifyPayload{
		CaptchaID:   second.CaptchaID,
		CaptchaCode: code,
	}); err != nil {
		t.Fatalf("expected captcha accepted, got %v", err)
	}
	if err := svc.Verify(constants.CaptchaSceneGuestCreateOrder, CaptchaVerifyPayload{
		CaptchaID:   second.CaptchaID,
		CaptchaCode: code,
	}); !errors.Is(err, ErrCaptchaInvalid) {
		t.Fatalf("expected captcha consumed after first use, got %v", err)
	}
}

func TestNormalizeCaptchaConfigDefaults(t *testing.T) {
	cfg := normalizeCaptchaConfig(config.CaptchaConfig{
		Provider: "image",
		Image:    config.CaptchaImageConfig{Length: 99, Width: 10, ExpireSeconds: 1},
	})
	if cfg.Image.Length != 5 || cfg.Image.Width != 240 || cfg.Image.Height != 80 || cfg.Image.ExpireSeconds != 300 {
		t.Fatalf("unexpected normalized image config: %+v", cfg.Image)
	}
	if normalizeCaptchaConfig(config.CaptchaConfig{Provider: "turnstile"}).Provider != constants.CaptchaProviderNone {
		t.Fatalf("unknown provider should fall back to none")
	}
}
