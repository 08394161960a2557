package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Compile   bool
	Eval      bool
	Transform bool
	Tree      bool
	History   bool
	Store     bool
}

var d *debug

func init() {
	d = &debug{}
	d.Compile = boolEnv("RPT_DEBUG_COMPILE")
	d.Eval = boolEnv("RPT_DEBUG_EVAL")
	d.Transform = boolEnv("RPT_DEBUG_TRANSFORM")
	d.Tree = boolEnv("RPT_DEBUG_TREE")
	d.History = boolEnv("RPT_DEBUG_HISTORY")
	d.Store = boolEnv("RPT_DEBUG_STORE")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Compile() bool {
	return d.Compile
}
func Eval() bool {
	return d.Eval
}
func Transform() bool {
	return d.Transform
}
func Tree() bool {
	return d.Tree
}
func History() bool {
	return d.History
}
func Store() bool {
	return d.Store
}
