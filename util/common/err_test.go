package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecover(t *testing.T) {
	var got any
	run := func() {
		defer func() { got = recover() }()
		func() {
			defer Recover("worker")
			panic("boom")
		}()
	}
	assert.NotPanics(t, run)
	assert.Nil(t, got)
}

func TestCombine(t *testing.T) {
	assert.NoError(t, Combine(nil, nil))

	a := errors.New("a")
	err := Combine(nil, a)
	assert.ErrorIs(t, err, a)
}
