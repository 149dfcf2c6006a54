package router

import (
	"fmt"
	"strings"

	"catalog-chat-be/pkg/store"
)

// Intent is a recognized structured question about a single catalog record.
// These answers come straight from stored metadata, with no generation.
type Intent string

const (
	IntentPrice       Intent = "PRICE"
	IntentGroup       Intent = "GROUP"
	IntentDescription Intent = "DESCRIPTION"
	IntentReference   Intent = "REFERENCE"
	IntentCategory    Intent = "CATEGORY"
	IntentNone        Intent = "NONE"
)

// intentTriggers maps keyword substrings to intents. Order matters: the
// first trigger found in the message wins, so "precio de esa herramienta"
// resolves to PRICE, not CATEGORY.
var intentTriggers = []struct {
	intent   Intent
	keywords []string
}{
	{IntentPrice, []string{"precio"}},
	{IntentGroup, []string{"pg", "grupo"}},
	{IntentDescription, []string{"descripcion", "descripción"}},
	{IntentReference, []string{"referencia"}},
	{IntentCategory, []string{"categoria", "herramienta"}},
}

// ResolveIntent classifies a normalized message against the trigger table.
func ResolveIntent(normalized string) Intent {
	for _, t := range intentTriggers {
		for _, kw := range t.keywords {
			if strings.Contains(normalized, kw) {
				return t.intent
			}
		}
	}
	return IntentNone
}

// FormatAnswer renders the metadata field an intent asks for, with its
// label and unit. The reply texts are fixed product copy, do not reword.
func FormatAnswer(intent Intent, md store.Metadata) (string, bool) {
	if md == nil {
		return "", false
	}
	switch intent {
	case IntentPrice:
		return fmt.Sprintf("💶 Precio unitario: %s EUR", md.Field("precio_unitario")), true
	case IntentGroup:
		return fmt.Sprintf("🏷 Grupo de descuento (PG): %s", md.Field("pg")), true
	case IntentDescription:
		return fmt.Sprintf("📄 Descripción: %s", md.Field("descripcion")), true
	case IntentReference:
		return fmt.Sprintf("🔢 Referencia: %s", md.Field("referencia")), true
	case IntentCategory:
		return fmt.Sprintf("🛠 Herramienta/Categoría: %s", md.Field("categoria")), true
	}
	return "", false
}
