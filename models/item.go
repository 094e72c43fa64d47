package models

// Item is the only stored entity. ID is assigned by the server and never changes.
type Item struct {
	ID   int64  `json:"id" bson:"_id"`
	Name string `json:"name" bson:"name"`
}

// ItemRequest is the body of POST /items and PUT /items/{id}.
type ItemRequest struct {
	Name string `json:"name"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}
