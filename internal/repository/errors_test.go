package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicate(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'Jet Blue-N101' for key 'PRIMARY'"}
	assert.True(t, isDuplicate(dup))
	assert.True(t, isDuplicate(fmt.Errorf("insert airplane: %w", dup)), "wrapped driver errors must still match")

	assert.False(t, isDuplicate(&mysql.MySQLError{Number: 1213, Message: "Deadlock found"}))
	assert.False(t, isDuplicate(errors.New("duplicate entry")))
	assert.False(t, isDuplicate(nil))
}
