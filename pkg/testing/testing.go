package testing

import (
	"os"
	"path"
	"runtime"
)

func init() {
	// cd to the root of the project when testing, so logs/ and relative db
	// paths land in one place.
	//
	//   import (
	//     _ "liyu1981.xyz/sensor-telemetry-service/pkg/testing"
	//   )

	_, filename, _, _ := runtime.Caller(0)
	dir := path.Join(path.Dir(filename), "..", "..")
	err := os.Chdir(dir)
	if err != nil {
		panic(err)
	}
}
