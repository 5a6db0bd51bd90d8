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
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"devt.de/krotik/leaf/config"
	"github.com/gorilla/websocket"
	"github.com/krotik/common/errorutil"
	"github.com/krotik/ecal/util"
)

/*
dial opens a websocket connection to a test server and reads the init
response.
*/
func dial(url string, session string) (*websocket.Conn, *Response, error) {
	var res Response

	url = "ws" + strings.TrimPrefix(url, "http") + EndpointSock

	if session != "" {
		url += "?session=" + session
	}

	c, _, err := websocket.DefaultDialer.Dial(url, nil)

	if err == nil {
		err = c.ReadJSON(&res)
	}

	return c, &res, err
}

/*
eval sends code over a websocket connection and reads the response.
*/
func eval(c *websocket.Conn, code string) *Response {
	var res Response

	errorutil.AssertOk(c.WriteJSON(&Request{Code: code}))
	errorutil.AssertOk(c.ReadJSON(&res))

	return &res
}

func TestSockHandler(t *testing.T) {
	config.LoadDefaultConfig()

	logger := util.NewMemoryLogger(20)
	srv := httptest.NewServer(NewSockHandler(logger))
	defer srv.Close()

	c, first, err := dial(srv.URL, "")

	if err != nil || first.Type != ResponseInit || first.Session == "" {
		t.Error("Unexpected result:", first, err)
		return
	}

	res := eval(c, "x << 5\nx\nshow['hi']\nx * 2")

	if res.Type != ResponseResult || res.Session != first.Session || res.Error != "" ||
		fmt.Sprint(res.Echo) != "[5 10]" || res.Output != "hi\n" {
		t.Error("Unexpected result:", res)
		return
	}

	res = eval(c, "y")

	if !strings.HasPrefix(res.Error, "NameError in "+first.Session+": Unknown name 'y'") ||
		res.Kind != "NameError" {
		t.Error("Unexpected result:", res)
		return
	}

	res = eval(c, "if (__interactive__), then\n| 'remote'\nendif")

	if fmt.Sprint(res.Echo) != "['remote']" {
		t.Error("Unexpected result:", res)
		return
	}

	// Malformed requests do not end the connection

	errorutil.AssertOk(c.WriteMessage(websocket.TextMessage, []byte("buu")))

	var bad Response
	errorutil.AssertOk(c.ReadJSON(&bad))

	if bad.Error == "" || bad.Session != first.Session {
		t.Error("Unexpected result:", bad)
		return
	}

	errorutil.AssertOk(c.WriteJSON(&Request{Close: true}))

	if _, _, err := c.ReadMessage(); err == nil {
		t.Error("Connection should be closed")
		return
	}

	c.Close()

	// Resume the session with a new connection

	c, resumed, err := dial(srv.URL, first.Session)
	errorutil.AssertOk(err)
	defer c.Close()

	if resumed.Session != first.Session {
		t.Error("Unexpected session:", resumed)
		return
	}

	if res = eval(c, "x + 1"); fmt.Sprint(res.Echo) != "[6]" {
		t.Error("Unexpected result:", res)
		return
	}

	// Unknown sessions are replaced by new sessions

	c2, other, err := dial(srv.URL, "123")
	errorutil.AssertOk(err)
	defer c2.Close()

	if other.Session == first.Session || other.Session == "123" {
		t.Error("Unexpected session:", other)
		return
	}

	if res = eval(c2, "x"); res.Kind != "NameError" {
		t.Error("Unexpected result:", res)
		return
	}

	// Plain HTTP requests cannot be upgraded

	resp, err := http.Get(srv.URL + EndpointSock)
	errorutil.AssertOk(err)
	resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Error("Unexpected status:", resp.Status)
		return
	}
}

func TestSessions(t *testing.T) {
	sm := NewSessionManager(10, 3600)

	s := sm.Session("")

	if s2 := sm.Session(s.ID); s2 != s {
		t.Error("Unexpected session:", s2)
		return
	}

	// Evaluations of one session are serialized

	s.Eval("i << 0", util.NewNullLogger())

	var wg sync.WaitGroup

	for j := 0; j < 10; j++ {
		wg.Add(1)

		go func() {
			defer wg.Done()
			s.Eval("i << i + 1", util.NewNullLogger())
		}()
	}

	wg.Wait()

	if res := s.Eval("i", util.NewNullLogger()); fmt.Sprint(res.Echo) != "[10]" {
		t.Error("Unexpected result:", res)
		return
	}

	if !sm.Remove(s.ID) || sm.Remove(s.ID) {
		t.Error("Unexpected remove result")
		return
	}

	if s2 := sm.Session(s.ID); s2 == s || s2.ID == s.ID {
		t.Error("Removed session should not be returned")
		return
	}
}

func TestSessionIdentity(t *testing.T) {
	sm := NewSessionManager(10, 3600)
	s := sm.Session("")

	if res := s.Eval("t << type[5]\np << show", util.NewNullLogger()); res.Error != "" {
		t.Error("Unexpected result:", res)
		return
	}

	// Types and builtins stay the same objects over several evaluations

	if res := s.Eval("t = Number", util.NewNullLogger()); fmt.Sprint(res.Echo) != "[true]" {
		t.Error("Unexpected result:", res)
		return
	}

	if res := s.Eval("p['hello']", util.NewNullLogger()); res.Error != "" || res.Output != "hello\n" {
		t.Error("Unexpected result:", res)
		return
	}

	// Output and echo belong to a single evaluation

	if res := s.Eval("show['again']\n1", util.NewNullLogger()); res.Output != "again\n" ||
		fmt.Sprint(res.Echo) != "[1]" {
		t.Error("Unexpected result:", res)
		return
	}
}

func TestStartServer(t *testing.T) {
	var printLog []string
	var errorLog []string
	var logLock sync.Mutex

	origPrint, origFatal := print, fatal

	defer func() {
		print, fatal = origPrint, origFatal
	}()

	print = func(v ...interface{}) {
		logLock.Lock()
		defer logLock.Unlock()
		printLog = append(printLog, fmt.Sprint(v...))
	}
	fatal = func(v ...interface{}) {
		logLock.Lock()
		defer logLock.Unlock()
		errorLog = append(errorLog, fmt.Sprint(v...))
	}

	config.LoadDefaultConfig()
	config.Config[config.ServerPort] = "9292"
	config.Config[config.LockFile] = "leaf_test.lck"
	config.Config[config.LogLevel] = "Error"

	defer config.LoadDefaultConfig()

	done := make(chan bool)

	go func() {
		StartServer()
		done <- true
	}()

	for i := 0; i < 100 && !Running.IsSet(); i++ {
		time.Sleep(50 * time.Millisecond)
	}

	if !Running.IsSet() {
		t.Error("Server did not start:", errorLog)
		return
	}

	c, first, err := dial("http://localhost:9292", "")
	errorutil.AssertOk(err)

	if res := eval(c, "1 + 1"); fmt.Sprint(res.Echo) != "[2]" || res.Session != first.Session {
		t.Error("Unexpected result:", res)
		return
	}

	c.Close()

	// To stop the server the lock watcher has to recognise that the
	// lockfile was modified

	for stopped := false; !stopped; {
		os.WriteFile("leaf_test.lck", []byte("a"), 0660)

		select {
		case <-done:
			stopped = true
		case <-time.After(200 * time.Millisecond):
		}
	}

	if Running.IsSet() {
		t.Error("Server should not be running")
		return
	}

	logLock.Lock()
	defer logLock.Unlock()

	if res := strings.Join(printLog, "\n"); res != `
Leaf 0.9.1
Starting server on: localhost:9292
Waiting for shutdown
Lockfile was modified
Shutting down`[1:] || len(errorLog) != 0 {
		t.Error("Unexpected log:", res, errorLog)
		return
	}
}
