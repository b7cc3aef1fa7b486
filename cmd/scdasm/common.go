package main

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"scdtool/pkg/bundle"
	"scdtool/pkg/diag"
	"scdtool/pkg/scd"
)

// loadScript reads a bundle, or a raw SCD chunk whose procedures all belong
// to kind.
func loadScript(path string, table scd.ConstantTable, kind scd.Kind) (*scd.Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	if bundle.IsBundle(data) {
		s, _, err := bundle.Decode(data)
		if err != nil {
			return nil, errors.Wrapf(err, "decoding %s", path)
		}
		if s.Version != table.Version() {
			return nil, errors.Errorf("%s targets %s but the selected engine is %s", path, s.Version, table.Version())
		}
		return s, nil
	}

	procs, err := scd.SplitProcedures(data)
	if err != nil {
		return nil, errors.Wrapf(err, "splitting %s", path)
	}
	s := &scd.Script{Version: table.Version()}
	for i, p := range procs {
		s.Add(kind, scd.DefaultProcName(kind, i), p)
	}
	logrus.Debugf("read %d %s procedures from raw chunk %s", len(procs), kind, path)
	return s, nil
}

// logDiagnostics reports every diagnostic on its own log line.
func logDiagnostics(errs []diag.Error) {
	for _, e := range errs {
		logrus.Error(e.Error())
	}
}

// writeOutput writes text to path, or to w when path is empty or "-".
func writeOutput(w io.Writer, path, text string) error {
	if path == "" || path == "-" {
		_, err := io.WriteString(w, text)
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}
