package model

import "encoding/json"

type ConvertRequestBody struct {
	Rectangles []Rectangle `json:"rectangles"`
	Message    string      `json:"message"`
}

type ConvertResponse struct {
	Status string `json:"status"`

	// echo of the raw request body
	DataReceived json.RawMessage `json:"data_received"`
	AbcNotation  string          `json:"abc_notation"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
