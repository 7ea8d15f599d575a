package svalbard

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetMsgWithToken(t *testing.T) {
	got, err := GetMsgWithToken(TokenMsgData{RequestID: "reqID1", Token: "someToken"})
	require.NoError(t, err)
	require.Equal(t, "SVBD:reqID1:someToken", got)

	_, err = GetMsgWithToken(TokenMsgData{RequestID: "67:g", Token: "ghHAHye"})
	require.ErrorIs(t, err, ErrInvalidParametersForMsgWithToken)

	_, err = GetMsgWithToken(TokenMsgData{RequestID: "reqID", Token: "tok:en"})
	require.ErrorIs(t, err, ErrInvalidParametersForMsgWithToken)
}

func TestParseMsgWithToken(t *testing.T) {
	got, err := ParseMsgWithToken("SVBD:reqID1:someToken")
	require.NoError(t, err)
	require.Equal(t, TokenMsgData{RequestID: "reqID1", Token: "someToken"}, got)

	cases := []string{
		"SVBD::",
		"SVB:reqID2:someOtherToken",
		"SVBD:reqID3:some:OtherToken",
		"not a token message at all",
		"",
	}
	for _, c := range cases {
		_, err := ParseMsgWithToken(c)
		require.ErrorIs(t, err, ErrInvalidMsgWithToken, "input %q", c)
	}
}

func TestMsgWithTokenRoundTrip(t *testing.T) {
	data := TokenMsgData{RequestID: "reqID3", Token: "aVeryLongToken1234567890"}
	msg, err := GetMsgWithToken(data)
	require.NoError(t, err)
	got, err := ParseMsgWithToken(msg)
	require.NoError(t, err)
	require.Equal(t, data, got)
}
