package protocol

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/jigsawd/internal/model"
)

func TestWriteReadRoundTrip(t *testing.T) {
	var buf bytes.Buffer

	req := HostGameRequest{
		GameName:   "friday puzzle",
		MaxPlayers: 4,
		ImageURL:   "http://example.com/cat.jpg",
		Difficulty: model.DifficultyMedium,
	}
	require.NoError(t, Write(&buf, TypeHostGame, req))

	msg, err := NewReader(&buf).Read()
	require.NoError(t, err)
	assert.Equal(t, TypeHostGame, msg.Type)

	var decoded HostGameRequest
	require.NoError(t, msg.DecodePayload(&decoded))
	assert.Equal(t, req, decoded)
}

func TestMarshalAppendsNewlineDelimiter(t *testing.T) {
	data, err := Marshal(TypeLeaveGame, struct{}{})
	require.NoError(t, err)
	assert.True(t, bytes.HasSuffix(data, []byte("\n")))
}

func TestReadMultipleDocumentsFromOneStream(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, TypeLockObject, LockObjectRequest{ObjectID: "piece_1"}))
	require.NoError(t, Write(&buf, TypeMoveLockedObject, MoveLockedObjectRequest{
		ObjectID: "piece_1",
		Position: &model.Position{X: 10, Y: 20},
	}))
	require.NoError(t, Write(&buf, TypeLeaveGame, struct{}{}))

	r := NewReader(&buf)

	msg, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, TypeLockObject, msg.Type)

	msg, err = r.Read()
	require.NoError(t, err)
	assert.Equal(t, TypeMoveLockedObject, msg.Type)
	var move MoveLockedObjectRequest
	require.NoError(t, msg.DecodePayload(&move))
	require.NotNil(t, move.Position)
	assert.Equal(t, 10, move.Position.X)

	msg, err = r.Read()
	require.NoError(t, err)
	assert.Equal(t, TypeLeaveGame, msg.Type)

	_, err = r.Read()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadHandlesSplitDocument(t *testing.T) {
	full, err := Marshal(TypeJoinGame, JoinGameRequest{GameID: "ABC234"})
	require.NoError(t, err)

	// Deliver the document one byte at a time
	r := NewReader(&iotestOneByteReader{data: full})
	msg, readErr := r.Read()
	require.NoError(t, readErr)
	assert.Equal(t, TypeJoinGame, msg.Type)
}

// iotestOneByteReader yields one byte per Read call
type iotestOneByteReader struct {
	data []byte
}

func (r *iotestOneByteReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	p[0] = r.data[0]
	r.data = r.data[1:]
	return 1, nil
}

func TestReadRejectsMissingType(t *testing.T) {
	r := NewReader(strings.NewReader(`{"payload": {}}` + "\n"))
	_, err := r.Read()
	assert.ErrorContains(t, err, "missing type")
}

func TestReadRejectsGarbage(t *testing.T) {
	r := NewReader(strings.NewReader("this is not json\n"))
	_, err := r.Read()
	assert.Error(t, err)
}

func TestAckPayloadShape(t *testing.T) {
	data, err := Marshal(TypeHostGameAck, RoomStateAck{
		Ack:    Ack{Success: true},
		GameID: "ABC234",
	})
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"type":"HOST_GAME_ACK"`)
	assert.Contains(t, s, `"success":true`)
	assert.Contains(t, s, `"game_id":"ABC234"`)
}
