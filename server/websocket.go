/*
 * Leaf
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

/*
Request is a message which is sent by a client.
*/
type Request struct {
	Code  string `json:"code"`  // Code which should be evaluated
	Close bool   `json:"close"` // Flag if the connection should be closed
}

/*
Response is a message which is sent to a client.
*/
type Response struct {
	Type    string   `json:"type"`             // Message type (init or result)
	Session string   `json:"session"`          // Session of the connection
	Echo    []string `json:"echo,omitempty"`   // Echoed statement results
	Output  string   `json:"output,omitempty"` // Output of the show builtin
	Error   string   `json:"error,omitempty"`  // Error of the evaluation
	Kind    string   `json:"kind,omitempty"`   // Error kind
}

/*
Response types
*/
const (
	ResponseInit   = "init"
	ResponseResult = "result"
)

/*
sockConnection models a single websocket connection of a session.

Websocket connections support one concurrent reader and one concurrent writer.
See: https://godoc.org/github.com/gorilla/websocket#hdr-Concurrency
*/
type sockConnection struct {
	conn   *websocket.Conn
	rmutex *sync.Mutex
	wmutex *sync.Mutex
}

/*
newSockConnection wraps a websocket connection.
*/
func newSockConnection(c *websocket.Conn) *sockConnection {
	return &sockConnection{c, &sync.Mutex{}, &sync.Mutex{}}
}

/*
readRequest reads the next request from the connection. Returns a flag if
the error is fatal for the connection.
*/
func (sc *sockConnection) readRequest() (*Request, bool, error) {
	var req Request

	sc.rmutex.Lock()
	_, msg, err := sc.conn.ReadMessage()
	sc.rmutex.Unlock()

	if err != nil {
		return nil, true, err
	}

	if err = json.Unmarshal(msg, &req); err != nil {
		return nil, false, err
	}

	return &req, false, nil
}

/*
writeResponse writes a response to the connection.
*/
func (sc *sockConnection) writeResponse(res *Response) error {
	sc.wmutex.Lock()
	defer sc.wmutex.Unlock()

	data, err := json.Marshal(res)

	if err == nil {
		err = sc.conn.WriteMessage(websocket.TextMessage, data)
	}

	return err
}

/*
close closes the connection with a given reason.
*/
func (sc *sockConnection) close(msg string) {
	sc.wmutex.Lock()
	defer sc.wmutex.Unlock()

	sc.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(
			websocket.CloseNormalClosure, msg), time.Now().Add(10*time.Second))

	sc.conn.Close()
}
