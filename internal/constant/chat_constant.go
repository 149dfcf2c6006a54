package constant

// Fixed product copy returned by the dispatcher without generation.
const (
	ReplyGreeting          = "¡Hola! ¿En qué puedo ayudarte hoy con herramientas Ceratizit?"
	ReplyReferenceNotFound = "🔍 Referencia no encontrada en el catálogo."
)

// Prompt sent to the assistant when retrieval produced usable context.
// The raw message goes out as-is when nothing relevant was found.
const PromptWithContextFormat = "Mensaje del usuario: %s\n\nContexto disponible:\n%s\n\nResponde según el contexto. Si no es útil, responde normalmente."

// Callers that do not identify themselves share one anonymous session.
const DefaultUserId = "default"

// Log module names
const (
	ModuleChatService   = "chat_service"
	ModuleIngestService = "ingest_service"
	ModuleSearchService = "search_service"
)
