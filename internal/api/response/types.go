package response

// CreateRoomResponse is the response for room creation
type CreateRoomResponse struct {
	RoomID    string `json:"roomId"`
	SessionID string `json:"sessionId"`
}

// JoinRoomResponse is the response for joining a room
type JoinRoomResponse struct {
	SessionID string `json:"sessionId"`
}

// SuccessResponse is the generic acknowledgement for room actions
type SuccessResponse struct {
	Success bool `json:"success"`
}

// OK is the canonical success acknowledgement
var OK = SuccessResponse{Success: true}
