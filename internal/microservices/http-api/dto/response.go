package dto

// APIResponse is the envelope of every search and save response.
// Code is 0 on success and the HTTP status otherwise.
type APIResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// CharacterSearchData is the data member of a search response
type CharacterSearchData struct {
	Characters []CharacterDTO `json:"characters"`
	Total      int            `json:"total"`
}

func Success(message string, data interface{}) APIResponse {
	return APIResponse{Code: 0, Message: message, Data: data}
}

func Failure(status int, message string) APIResponse {
	return APIResponse{Code: status, Message: message}
}
