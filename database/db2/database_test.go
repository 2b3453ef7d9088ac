package db2

import (
	"testing"

	"github.com/erddef/erddef/database"
	"github.com/stretchr/testify/assert"
)

func TestBuildDSN(t *testing.T) {
	config := database.Config{DbName: "SAMPLE", User: "db2inst1", Password: "secret", Host: "localhost", Port: 50000}
	assert.Equal(t, "HOSTNAME=localhost;DATABASE=SAMPLE;PORT=50000;UID=db2inst1;PWD=secret", db2BuildDSN(config))

	config.SslMode = "require"
	config.SslCa = "/etc/db2/ca.arm"
	assert.Equal(t,
		"HOSTNAME=localhost;DATABASE=SAMPLE;PORT=50000;UID=db2inst1;PWD=secret;SECURITY=SSL;SSLServerCertificate=/etc/db2/ca.arm",
		db2BuildDSN(config))
}

func TestDefaultSchemaIsAuthorizationID(t *testing.T) {
	d := &DB2Database{config: database.Config{User: "db2inst1"}}
	assert.Equal(t, "DB2INST1", d.DefaultSchema())
}
