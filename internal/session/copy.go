package session

import (
	"errors"

	"lexbot/sdk/backend"
)

// OfflineNotice is the assistant message appended when a query fails.
const OfflineNotice = "❌ Lo siento, perdí la conexión con el backend. " +
	"Por favor verifica que el servidor esté corriendo y reintenta la conexión."

// SuggestedQuestions are offered while the conversation is empty.
var SuggestedQuestions = []string{
	"¿Qué dice la Constitución sobre derechos fundamentales?",
	"¿Cuáles son las sanciones por conducir embriagado?",
	"¿Qué derechos tengo como ciudadano colombiano?",
	"¿Qué protecciones existen contra la violencia de género?",
}

var (
	noticeConnected = Notice{
		Level: NoticeSuccess,
		Title: "Conectado al backend correctamente",
	}
	noticeConnectFailed = Notice{
		Level:       NoticeError,
		Title:       "No se pudo conectar al backend",
		Description: "Asegúrate de que el servidor esté corriendo.",
		Retry:       true,
	}
	noticeBackendUnavailable = Notice{
		Level:       NoticeError,
		Title:       "Backend no disponible",
		Description: "Inicia el servidor y reintenta la conexión.",
		Retry:       true,
	}
	noticeAnswered = Notice{
		Level: NoticeSuccess,
		Title: "Respuesta recibida",
	}
)

// queryFailedNotice describes a failed query by failure kind.
func queryFailedNotice(err error) Notice {
	n := Notice{
		Level:       NoticeError,
		Title:       "Error de conexión",
		Description: "El backend no responde. Verifica que esté corriendo.",
		Retry:       true,
	}
	switch backend.KindOf(err) {
	case backend.KindTimeout:
		n.Description = "La consulta tardó demasiado. Intenta con una pregunta más específica."
	case backend.KindUnreachable:
		n.Description = "Conexión perdida con el backend."
	case backend.KindServer:
		var berr *backend.Error
		if errors.As(err, &berr) {
			if d := berr.Detail(); d != "" {
				n.Description = d
			}
		}
	}
	return n
}
