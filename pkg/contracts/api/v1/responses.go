package api

// Response is the envelope of every successful response.
type Response struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data"`
}

// Success wraps data in a success envelope.
func Success(data interface{}) Response {
	return Response{Status: "success", Data: data}
}
