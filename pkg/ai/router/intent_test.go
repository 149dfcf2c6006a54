package router

import (
	"testing"

	"catalog-chat-be/pkg/store"
)

func TestResolveIntent(t *testing.T) {
	tests := []struct {
		normalized string
		want       Intent
	}{
		{"cual es el precio de 12345678", IntentPrice},
		{"grupo de descuento", IntentGroup},
		{"en que pg esta", IntentGroup},
		{"dame la descripcion", IntentDescription},
		{"descripción por favor", IntentDescription},
		{"cual es la referencia", IntentReference},
		{"que categoria tiene", IntentCategory},
		{"que herramienta es", IntentCategory},
		{"busco una fresa de 10mm", IntentNone},
		// Priority: price wins over category when both cues appear.
		{"precio de esa herramienta", IntentPrice},
		// Priority: group wins over description.
		{"grupo y descripcion", IntentGroup},
	}

	for _, tt := range tests {
		t.Run(tt.normalized, func(t *testing.T) {
			if got := ResolveIntent(tt.normalized); got != tt.want {
				t.Errorf("ResolveIntent(%q) = %s, want %s", tt.normalized, got, tt.want)
			}
		})
	}
}

func TestFormatAnswer(t *testing.T) {
	md := store.Metadata{
		"referencia":      float64(12345678),
		"descripcion":     "Fresa de ranurar MonsterMill",
		"precio_unitario": 142.5,
		"pg":              "H21",
		"categoria":       "Fresado",
	}

	tests := []struct {
		intent Intent
		want   string
		wantOk bool
	}{
		{IntentPrice, "💶 Precio unitario: 142.5 EUR", true},
		{IntentGroup, "🏷 Grupo de descuento (PG): H21", true},
		{IntentDescription, "📄 Descripción: Fresa de ranurar MonsterMill", true},
		{IntentReference, "🔢 Referencia: 12345678", true},
		{IntentCategory, "🛠 Herramienta/Categoría: Fresado", true},
		{IntentNone, "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.intent), func(t *testing.T) {
			got, ok := FormatAnswer(tt.intent, md)
			if got != tt.want || ok != tt.wantOk {
				t.Errorf("FormatAnswer(%s) = (%q, %v), want (%q, %v)", tt.intent, got, ok, tt.want, tt.wantOk)
			}
		})
	}
}

func TestFormatAnswerNilMetadata(t *testing.T) {
	if _, ok := FormatAnswer(IntentPrice, nil); ok {
		t.Error("FormatAnswer with nil metadata should not produce an answer")
	}
}
