package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/relplan/internal/schema"
)

// LoadValue loads and builds the CUE package in dir.
func LoadValue(dir string) (cue.Value, error) {
	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return cue.Value{}, &CompileError{Field: "load", Message: "no CUE instances loaded"}
	}

	inst := instances[0]
	if inst.Err != nil {
		return cue.Value{}, &CompileError{Field: "load", Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return cue.Value{}, formatCUEError(err)
	}
	return value, nil
}

// LoadDir loads the CUE package in dir and compiles it into a schema.
func LoadDir(dir string) (*schema.Schema, error) {
	v, err := LoadValue(dir)
	if err != nil {
		return nil, err
	}
	return CompileSchema(v)
}
