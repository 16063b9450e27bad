package types

import (
	"encoding/json"
	"testing"
)

func TestLocationUnmarshalString(t *testing.T) {
	var l Location
	if err := json.Unmarshal([]byte(`"Полтавська область"`), &l); err != nil {
		t.Fatalf("unmarshal string location: %v", err)
	}
	if l.String() != "Полтавська область" {
		t.Fatalf("unexpected display form %q", l.String())
	}
}

func TestLocationUnmarshalStructured(t *testing.T) {
	raw := `{"settlement":"Миргород","region":"Полтавська","country":"Україна"}`
	var l Location
	if err := json.Unmarshal([]byte(raw), &l); err != nil {
		t.Fatalf("unmarshal structured location: %v", err)
	}
	if l.Settlement != "Миргород" {
		t.Fatalf("unexpected settlement %q", l.Settlement)
	}
	if got := l.String(); got != "Миргород, Полтавська, Україна" {
		t.Fatalf("unexpected display form %q", got)
	}
}

func TestLocationNullAndEmpty(t *testing.T) {
	var l Location
	if err := json.Unmarshal([]byte(`null`), &l); err != nil {
		t.Fatalf("unmarshal null location: %v", err)
	}
	if !l.IsZero() {
		t.Fatalf("expected zero location, got %+v", l)
	}
}

func TestErrorEnvelopeBestMessage(t *testing.T) {
	nested := ErrorEnvelope{Error: &APIError{Message: "поле обовʼязкове"}, Message: "outer"}
	if nested.BestMessage() != "поле обовʼязкове" {
		t.Fatalf("expected nested message to win, got %q", nested.BestMessage())
	}

	flat := ErrorEnvelope{Message: "Помилка завантаження оголошень"}
	if flat.BestMessage() != "Помилка завантаження оголошень" {
		t.Fatalf("unexpected flat message %q", flat.BestMessage())
	}
}
