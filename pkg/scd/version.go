// Package scd describes the SCD room-script bytecode: opcode sizes, operand
// signatures and the symbolic names of operand values, one table per engine
// version.
package scd

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Version identifies the engine a script targets.
type Version int

const (
	Bio1 Version = 1
	Bio2 Version = 2
	Bio3 Version = 3
)

func (v Version) String() string {
	switch v {
	case Bio1:
		return "bio1"
	case Bio2:
		return "bio2"
	case Bio3:
		return "bio3"
	}
	return fmt.Sprintf("version(%d)", int(v))
}

// ParseVersion accepts "bio2", "re2" or the plain number "2".
func ParseVersion(s string) (Version, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "bio1", "re1":
		return Bio1, nil
	case "2", "bio2", "re2":
		return Bio2, nil
	case "3", "bio3", "re3":
		return Bio3, nil
	}
	return 0, errors.Errorf("unknown engine version %q", s)
}

var bio2 = newBio2Table()

// TableFor returns the shared, read-only table of an engine version.
func TableFor(v Version) (ConstantTable, error) {
	switch v {
	case Bio2:
		logrus.Debugf("using %s opcode table", v)
		return bio2, nil
	}
	return nil, errors.Errorf("no opcode table for %s", v)
}
