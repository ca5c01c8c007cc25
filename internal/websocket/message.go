package websocket

import "encoding/json"

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// QueryPayload is the payload of an inbound "query" action.
type QueryPayload struct {
	Query string `json:"query"`
}

// NewAnswerMessage encodes an "answer" message.
func NewAnswerMessage(answer string) []byte {
	return mustMarshal(Message{Action: "answer", Payload: map[string]string{"answer": answer}})
}

// NewErrorMessage encodes an "error" message.
func NewErrorMessage(message string) []byte {
	return mustMarshal(Message{Action: "error", Payload: map[string]string{"message": message}})
}

func mustMarshal(m Message) []byte {
	b, err := json.Marshal(m)
	if err != nil {
		// Only string maps are ever marshaled here.
		panic(err)
	}
	return b
}
