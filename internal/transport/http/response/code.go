package response

// Fixed response texts shared by handlers and middleware.
const (
	ServerErrorText = "Server Error"

	MsgNoToken      = "No token, authorization denied"
	MsgInvalidToken = "Token is not valid"
	MsgTooMany      = "Too many requests"
	MsgBusy         = "Server busy"
	MsgBodyTooLarge = "Request body too large"
	MsgTimeout      = "Request timed out"
	MsgBadBody      = "Invalid request body"
)
