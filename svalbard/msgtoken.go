package svalbard

import "strings"

// msgPrefix tags a secondary channel message as carrying a custody token,
// distinguishing it from any other traffic a shared channel might carry.
const msgPrefix = "SVBD"

// GetMsgWithToken renders data as "SVBD:<requestID>:<token>". Neither field
// may contain ':', the field separator, since the message is parsed back
// by splitting on it.
func GetMsgWithToken(data TokenMsgData) (string, error) {
	if strings.Contains(data.RequestID, ":") || strings.Contains(data.Token, ":") {
		return "", ErrInvalidParametersForMsgWithToken
	}
	return msgPrefix + ":" + data.RequestID + ":" + data.Token, nil
}

// ParseMsgWithToken is the inverse of GetMsgWithToken.
func ParseMsgWithToken(msg string) (TokenMsgData, error) {
	parts := strings.Split(msg, ":")
	if len(parts) != 3 || parts[0] != msgPrefix || parts[1] == "" || parts[2] == "" {
		return TokenMsgData{}, ErrInvalidMsgWithToken
	}
	return TokenMsgData{RequestID: parts[1], Token: parts[2]}, nil
}
