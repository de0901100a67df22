package twilio

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/twilio/twilio-go/twiml"
)

const (
	sayVoice    = "alice"
	sayLanguage = "es-ES"

	// One digit decides the call; 8 seconds is how long the resident gets
	// to press it before the timeout branch speaks and hangs up.
	gatherDigits  = "1"
	gatherTimeout = "8"
)

func say(message string) *twiml.VoiceSay {
	return &twiml.VoiceSay{
		Message:  message,
		Voice:    sayVoice,
		Language: sayLanguage,
	}
}

func menuQuery(residentName, visitorName, visitID string) string {
	q := url.Values{}
	q.Set("residentName", residentName)
	q.Set("visitorName", visitorName)
	q.Set("visitId", visitID)
	return q.Encode()
}

func joinURL(baseURL, path, query string) string {
	base := strings.TrimRight(baseURL, "/")
	return base + path + "?" + query
}

// BuildVoicePrompt renders the spoken menu played when the resident picks
// up: identify the visitor, press 1 to authorize, 2 to reject, 3 to hear
// it again. If no digit arrives within the gather timeout the call says so
// and ends instead of hanging silently.
func BuildVoicePrompt(residentName, visitorName, visitID, baseURL string) (string, error) {
	visitor := strings.TrimSpace(visitorName)
	if visitor == "" {
		visitor = "no identificado"
	}

	prompt := fmt.Sprintf(
		"Hola. Se solicita autorizacion de ingreso para el visitante %s. "+
			"Estimado residente %s, "+
			"si desea autorizar el ingreso, presione 1. "+
			"Si desea rechazar el ingreso, presione 2. "+
			"Si desea escuchar nuevamente la informacion, presione 3.",
		visitor, strings.TrimSpace(residentName),
	)

	query := menuQuery(residentName, visitorName, visitID)
	gather := &twiml.VoiceGather{
		NumDigits: gatherDigits,
		Timeout:   gatherTimeout,
		Action:    joinURL(baseURL, "/twilio/voice/handle-input", query),
		Method:    "POST",
		InnerElements: []twiml.Element{
			say(prompt),
		},
	}

	return twiml.Voice([]twiml.Element{
		gather,
		say("No se recibio ninguna respuesta. La llamada finalizara."),
		&twiml.VoiceHangup{},
	})
}

// BuildInputResponse renders the menu document answering a digit press.
// Digit 3 replays the prompt; anything that is not 1, 2 or 3 fails closed
// with an invalid-option message and ends the call.
func BuildInputResponse(digit, residentName, visitorName, visitID, baseURL string) (string, error) {
	query := menuQuery(residentName, visitorName, visitID)

	var verbs []twiml.Element
	switch digit {
	case "1":
		verbs = []twiml.Element{
			say("Has autorizado el ingreso del visitante. Muchas gracias."),
			&twiml.VoiceHangup{},
		}
	case "2":
		verbs = []twiml.Element{
			say("Has rechazado el ingreso del visitante. Muchas gracias."),
			&twiml.VoiceHangup{},
		}
	case "3":
		verbs = []twiml.Element{
			say("Reproduciendo nuevamente la informacion."),
			&twiml.VoiceRedirect{
				Url:    joinURL(baseURL, "/twilio/voice", query),
				Method: "POST",
			},
		}
	default:
		verbs = []twiml.Element{
			say("Opcion no valida. La llamada finalizara."),
			&twiml.VoiceHangup{},
		}
	}

	return twiml.Voice(verbs)
}
