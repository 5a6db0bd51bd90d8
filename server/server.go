/*
 * Leaf
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package server contains the Leaf websocket server.

Clients connect to the endpoint /leaf/sock and send JSON requests of the
form {"code": "..."}. Each request is evaluated in the REPL session of the
connection and answered with the echoed results, the written output and a
possible error. A client can resume a session by passing its id in the
session query parameter. {"close": true} closes the connection.
*/
package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"devt.de/krotik/leaf/config"
	"devt.de/krotik/leaf/version"
	"github.com/gorilla/websocket"
	"github.com/krotik/common/httputil"
	"github.com/krotik/common/lockutil"
	"github.com/krotik/ecal/util"
	"github.com/tevino/abool/v2"
)

/*
EndpointSock is the websocket endpoint of the server.
*/
const EndpointSock = "/leaf/sock"

/*
Using custom consolelogger type so we can test log.Fatal calls with unit tests. Overwrite
these if the server should not call os.Exit on a fatal error.
*/
type consolelogger func(v ...interface{})

var fatal = consolelogger(log.Fatal)
var print = consolelogger(log.Print)

/*
Base path for all file (used by unit tests)
*/
var basepath = ""

/*
Running is set while the server accepts connections.
*/
var Running = abool.NewBool(false)

/*
sockUpgrader can upgrade normal requests to websocket communications
*/
var sockUpgrader = websocket.Upgrader{
	Subprotocols:    []string{"leaf-sock"},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

/*
sockHandler is the handler which is registered with the default ServeMux.
*/
var sockHandler *SockHandler

/*
SockHandler handles websocket connections of REPL sessions.
*/
type SockHandler struct {
	Sessions *SessionManager // Sessions of all clients
	Logger   util.Logger     // Logger for connection and evaluation messages
}

/*
NewSockHandler creates a new SockHandler. The session cache is configured
from config.Config.
*/
func NewSockHandler(logger util.Logger) *SockHandler {
	return &SockHandler{
		NewSessionManager(uint64(config.Int(config.SessionCacheMaxSize)),
			config.Int(config.SessionCacheMaxAgeSeconds)),
		logger,
	}
}

/*
ServeHTTP upgrades a request to a websocket connection and evaluates all
requests which are received on it.
*/
func (h *SockHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {

	// Update the incomming connection to a websocket
	// If the upgrade fails then the client gets an HTTP error response.

	conn, err := sockUpgrader.Upgrade(w, r, nil)

	if err != nil {

		// We give details here on what went wrong

		w.Write([]byte(err.Error()))
		return
	}

	sc := newSockConnection(conn)
	s := h.Sessions.Session(r.URL.Query().Get("session"))

	h.Logger.LogDebug(fmt.Sprintf("Connection for session %v from %v", s.ID, r.RemoteAddr))

	err = sc.writeResponse(&Response{Type: ResponseInit, Session: s.ID})

	for err == nil {
		var req *Request
		var closed bool

		if req, closed, err = sc.readRequest(); err != nil {

			if closed {
				break
			}

			// Malformed requests are answered but do not end the connection

			err = sc.writeResponse(&Response{Type: ResponseResult, Session: s.ID, Error: err.Error()})

			continue
		}

		if req.Close {
			sc.close("")
			return
		}

		res := s.Eval(req.Code, h.Logger)

		if res.Error != "" {
			h.Logger.LogDebug(fmt.Sprintf("Session %v: %v", s.ID, res.Error))
		}

		err = sc.writeResponse(res)
	}

	h.Logger.LogDebug(fmt.Sprintf("Connection for session %v ended: %v", s.ID, err))

	conn.Close()
}

/*
StartServer runs the Leaf websocket server. The server uses config.Config for
all its configuration parameters. The server runs until its lockfile is
modified.
*/
func StartServer() {
	print(fmt.Sprintf("Leaf %v.%v", version.VERSION, version.REV))

	// Ensure we have a configuration - use the default configuration if nothing was set

	if config.Config == nil {
		config.LoadDefaultConfig()
	}

	logger, err := util.NewLogLevelLogger(util.NewStdOutLogger(), config.Str(config.LogLevel))

	if err != nil {
		fatal(err)
		return
	}

	// The handler can only be registered once with the default ServeMux

	if sockHandler == nil {
		sockHandler = NewSockHandler(logger)
		http.Handle(EndpointSock, sockHandler)
	} else {
		sockHandler.Logger = logger
	}

	hs := &httputil.HTTPServer{}

	var wg sync.WaitGroup
	wg.Add(1)

	addr := config.Str(config.ServerHost) + ":" + config.Str(config.ServerPort)

	print("Starting server on: ", addr)

	go hs.RunHTTPServer(addr, &wg)

	// Wait until the server has started

	wg.Wait()

	if hs.LastError != nil {
		fatal(hs.LastError)
		return
	}

	Running.Set()
	defer Running.UnSet()

	// Create a lockfile so the server can be shut down

	lockfile := basepath + config.Str(config.LockFile)

	lf := lockutil.NewLockFile(lockfile, time.Duration(2)*time.Second)

	lf.Start()

	go func() {

		// Check if the lockfile watcher is running and
		// call shutdown once it has finished

		for lf.WatcherRunning() {
			time.Sleep(time.Duration(1) * time.Second)
		}

		print("Lockfile was modified")

		hs.Shutdown()
	}()

	// Add to the wait group so we can wait for the shutdown

	wg.Add(1)

	print("Waiting for shutdown")
	wg.Wait()

	print("Shutting down")

	os.RemoveAll(lockfile)
}
