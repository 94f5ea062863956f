package protocol

import "github.com/udisondev/npsgo/internal/constants"

// MessageKind is the closed set of NPS message types this package knows by name.
type MessageKind int

const (
	KindUnknown MessageKind = iota
	KindLoginRequest
	KindLoginResponse
	KindHeartbeat
	KindHandshake
	KindUserLogin
	KindUserAuth
)

// KindOf maps a message ID to its kind. Unknown IDs map to KindUnknown.
func KindOf(msgID uint16) MessageKind {
	switch msgID {
	case constants.MsgLoginRequest:
		return KindLoginRequest
	case constants.MsgLoginResponse:
		return KindLoginResponse
	case constants.MsgHeartbeat:
		return KindHeartbeat
	case constants.MsgHandshake:
		return KindHandshake
	case constants.MsgUserLogin:
		return KindUserLogin
	case constants.MsgUserAuth:
		return KindUserAuth
	default:
		return KindUnknown
	}
}

func (k MessageKind) String() string {
	switch k {
	case KindLoginRequest:
		return "LOGIN_REQUEST"
	case KindLoginResponse:
		return "LOGIN_RESPONSE"
	case KindHeartbeat:
		return "HEARTBEAT"
	case KindHandshake:
		return "HANDSHAKE"
	case KindUserLogin:
		return "USER_LOGIN"
	case KindUserAuth:
		return "USER_AUTH"
	default:
		return "UNKNOWN"
	}
}
