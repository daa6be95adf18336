//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/andaloo23/music-copilot/cmd"
	"github.com/andaloo23/music-copilot/config"
	"github.com/andaloo23/music-copilot/model"
	"github.com/stretchr/testify/assert"
)

var server *httptest.Server

func TestMain(m *testing.M) {
	server = httptest.NewServer(cmd.NewRouter(config.Default()))
	exitVal := m.Run()
	server.Close()
	os.Exit(exitVal)
}

func createConvertReqBody(rects []model.Rectangle) io.Reader {
	data, err := json.Marshal(model.ConvertRequestBody{Rectangles: rects, Message: "from the piano roll"})
	if err != nil {
		panic(err.Error())
	}
	return bytes.NewReader(data)
}

func post(t *testing.T, path string, rects []model.Rectangle) *http.Response {
	req, err := http.NewRequest(http.MethodPost, server.URL+path, createConvertReqBody(rects))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "http://127.0.0.1:8000")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

// A C major arpeggio then the full chord, as drawn on the frontend grid.
func TestCMajorE2E(t *testing.T) {
	rects := []model.Rectangle{
		{Top: "321px", Left: "21px", Width: "24px"},
		{Top: "241px", Left: "46px", Width: "24px"},
		{Top: "181px", Left: "71px", Width: "24px"},
		{Top: "321px", Left: "96px", Width: "99px"},
		{Top: "241px", Left: "96px", Width: "99px"},
		{Top: "181px", Left: "96px", Width: "99px"},
	}
	resp := post(t, "/", rects)
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)

	assert := assert.New(t)
	assert.Equal(200, resp.StatusCode)
	assert.Equal("*", resp.Header.Get("Access-Control-Allow-Origin"))

	var res model.ConvertResponse
	err := json.Unmarshal(respBody, &res)
	if err != nil {
		panic(err.Error())
	}
	assert.Equal("X:1\nT:Music Piece\nM:4/4\nL:1/8\nK:C\n|C5E5G5[C5E5G5]4 |", res.AbcNotation)
}

func TestMidiE2E(t *testing.T) {
	resp := post(t, "/midi", []model.Rectangle{{Top: "100px", Left: "0px", Width: "20px"}})
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)

	assert := assert.New(t)
	assert.Equal(200, resp.StatusCode)
	assert.Equal("MThd", string(respBody[:4]))
}
