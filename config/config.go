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
Package config contains the configuration of the Leaf tools.
*/
package config

import (
	"fmt"
	"strconv"

	"github.com/krotik/common/errorutil"
	"github.com/krotik/common/fileutil"
)

// Global variables
// ================

/*
DefaultConfigFile is the default config file which will be used to configure Leaf
*/
var DefaultConfigFile = "leaf.config.json"

/*
Known configuration options for Leaf
*/
const (
	LogLevel                  = "LogLevel"
	MaxRecursionDepth         = "MaxRecursionDepth"
	EnableColor               = "EnableColor"
	HistoryFile               = "HistoryFile"
	HistoryLength             = "HistoryLength"
	ServerHost                = "ServerHost"
	ServerPort                = "ServerPort"
	SessionCacheMaxSize       = "SessionCacheMaxSize"
	SessionCacheMaxAgeSeconds = "SessionCacheMaxAgeSeconds"
	LockFile                  = "LockFile"
)

/*
DefaultConfig is the defaut configuration
*/
var DefaultConfig = map[string]interface{}{
	LogLevel:                  "Info",
	MaxRecursionDepth:         1000,
	EnableColor:               true,
	HistoryFile:               ".leaf_history",
	HistoryLength:             100,
	ServerHost:                "localhost",
	ServerPort:                "9191",
	SessionCacheMaxSize:       100,
	SessionCacheMaxAgeSeconds: 3600,
	LockFile:                  "leaf.lck",
}

/*
Config is the actual config which is used
*/
var Config map[string]interface{}

/*
LoadConfigFile loads a given config file. If the config file does not exist it is
created with the default options.
*/
func LoadConfigFile(configfile string) error {
	var err error

	Config, err = fileutil.LoadConfig(configfile, DefaultConfig)

	return err
}

/*
LoadDefaultConfig loads the default configuration.
*/
func LoadDefaultConfig() {
	data := make(map[string]interface{})
	for k, v := range DefaultConfig {
		data[k] = v
	}

	Config = data
}

// Helper functions
// ================

/*
get reads a config value. Options which are not part of the loaded
configuration fall back to their default.
*/
func get(key string) interface{} {
	if v, ok := Config[key]; ok {
		return v
	}

	return DefaultConfig[key]
}

/*
Str reads a config value as a string value.
*/
func Str(key string) string {
	return fmt.Sprint(get(key))
}

/*
Int reads a config value as an int value.
*/
func Int(key string) int64 {
	ret, err := strconv.ParseInt(fmt.Sprint(get(key)), 10, 64)

	errorutil.AssertTrue(err == nil,
		fmt.Sprintf("Could not parse config key %v: %v", key, err))

	return ret
}

/*
Bool reads a config value as a boolean value.
*/
func Bool(key string) bool {
	ret, err := strconv.ParseBool(fmt.Sprint(get(key)))

	errorutil.AssertTrue(err == nil,
		fmt.Sprintf("Could not parse config key %v: %v", key, err))

	return ret
}
