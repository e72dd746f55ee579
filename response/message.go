// Package response contains the helpers the handlers use to write responses.
package response

import (
	"encoding/json"
	"net/http"
)

// StatusFailed is the status reported in every error message.
const StatusFailed = "Request Failed"

// A struct type that represents a message with a status and body.
// Message has the following properties:
// - Status: The status of the message.
// - Body: The body of the message.
type Message struct {
	Status string `json:"status"`
	Body   string `json:"body"`
}

// JSON writes v as a JSON body with the given status code.
func JSON(res http.ResponseWriter, status int, v any) error {
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(status)
	return json.NewEncoder(res).Encode(v)
}

// Error writes a Message with a failed status and the given text.
// The text is shown to clients, so it must not carry internal detail.
func Error(res http.ResponseWriter, status int, text string) error {
	return JSON(res, status, Message{Status: StatusFailed, Body: text})
}

// Text writes a plain text body with the given status code.
func Text(res http.ResponseWriter, status int, text string) error {
	res.Header().Set("Content-Type", "text/plain; charset=utf-8")
	res.WriteHeader(status)
	_, err := res.Write([]byte(text))
	return err
}
