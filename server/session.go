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
	"bytes"
	"fmt"
	"sync"

	"devt.de/krotik/leaf/interpreter"
	leafutil "devt.de/krotik/leaf/util"
	"devt.de/krotik/leaf/value"
	"github.com/krotik/common/cryptutil"
	"github.com/krotik/common/datautil"
	"github.com/krotik/ecal/util"
)

/*
Session is a REPL session of a remote client. Each session has its own
interpreter which keeps the global bindings between evaluations.
*/
type Session struct {
	ID     string                   // Unique session id
	lock   *sync.Mutex              // Lock which serializes evaluations
	interp *interpreter.Interpreter // Interpreter of the session
	out    *bytes.Buffer            // Output of the current evaluation
	res    *Response                // Response of the current evaluation
}

/*
newSession creates a new session with a fresh interpreter.
*/
func newSession(id string) *Session {
	s := &Session{ID: id, lock: &sync.Mutex{}, out: &bytes.Buffer{}}

	s.interp = interpreter.New(id)
	s.interp.Out = s.out
	s.interp.Echo = func(v value.Value) {
		s.res.Echo = append(s.res.Echo, value.Repr(v))
	}
	s.interp.SetInteractive(true)

	return s
}

/*
Eval evaluates code in the context of this session. Bindings which were
made before an error are kept.
*/
func (s *Session) Eval(code string, logger util.Logger) *Response {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.out.Reset()
	s.res = &Response{Type: ResponseResult, Session: s.ID}
	s.interp.Logger = logger

	if _, err := s.interp.Interpret(code); err != nil {
		s.res.Error = err.Error()

		if kind := leafutil.Kind(err); kind != nil {
			s.res.Kind = kind.Error()
		}
	}

	s.res.Output = s.out.String()

	return s.res
}

/*
SessionManager keeps all sessions of a server. Sessions which were not used
for a while are removed.
*/
type SessionManager struct {
	cache *datautil.MapCache
}

/*
NewSessionManager creates a new SessionManager which keeps at most maxsize
sessions for maxage seconds.
*/
func NewSessionManager(maxsize uint64, maxage int64) *SessionManager {
	return &SessionManager{datautil.NewMapCache(maxsize, maxage)}
}

/*
Session returns the session with a given id. A new session is created if
the id is unknown or the session has expired.
*/
func (sm *SessionManager) Session(id string) *Session {

	if id != "" {
		if s, ok := sm.cache.Get(id); ok {
			return s.(*Session)
		}
	}

	s := newSession(fmt.Sprintf("%x", cryptutil.GenerateUUID()))

	sm.cache.Put(s.ID, s)

	return s
}

/*
Remove removes a session.
*/
func (sm *SessionManager) Remove(id string) bool {
	return sm.cache.Remove(id)
}
