package config

import (
	"os"
	"strconv"
	"strings"
)

var (
	TLS_DOMAINS        = "" // e.g. "example.com,example2.com"
	MYSQL_DSN          = "" // MySQL will be used if this is set
	SQLITE_FILE        = "" // SQLite will be used if MYSQL_DSN is not configured and this is set
	BIND_ADDRESS       = "0.0.0.0:8080"
	DEFAULT_BUCKET_DIR = "" // Used for creating the initial (disk) bucket
	BADWORDS_FILE      = "" // JSON file with per-language blocklists; empty disables filtering
	DEBUG_MODE         = true
	PRESIGN_VALID_MINS = 15 // Validity of S3 download URLs handed out to clients
)

func init() {
	readEnvString("TLS_DOMAINS", &TLS_DOMAINS)
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvString("BIND_ADDRESS", &BIND_ADDRESS)
	readEnvString("DEFAULT_BUCKET_DIR", &DEFAULT_BUCKET_DIR)
	readEnvString("BADWORDS_FILE", &BADWORDS_FILE)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)
	readEnvInt("PRESIGN_VALID_MINS", &PRESIGN_VALID_MINS)
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}

func readEnvInt(name string, value *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*value = f
}
