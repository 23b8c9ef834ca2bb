// This file was auto-generated using createmock. See the following page for
// more information:
//
//     https://github.com/jacobsa/oglemock
//

package mock_fs

import (
	fmt "fmt"
	io "io"
	os "os"
	runtime "runtime"
	unsafe "unsafe"

	fs "github.com/jacobsa/crate/internal/fs"
	oglemock "github.com/jacobsa/oglemock"
)

type MockFileSystem interface {
	fs.FileSystem
	oglemock.MockObject
}

type mockFileSystem struct {
	controller  oglemock.Controller
	description string
}

func NewMockFileSystem(
	c oglemock.Controller,
	desc string) MockFileSystem {
	return &mockFileSystem{
		controller:  c,
		description: desc,
	}
}

func (m *mockFileSystem) Oglemock_Id() uintptr {
	return uintptr(unsafe.Pointer(m))
}

func (m *mockFileSystem) Oglemock_Description() string {
	return m.description
}

func (m *mockFileSystem) CreateFile(p0 string, p1 os.FileMode) (o0 io.WriteCloser, o1 error) {
	// Get a file name and line number for the caller.
	_, file, line, _ := runtime.Caller(1)

	// Hand the call off to the controller, which does most of the work.
	retVals := m.controller.HandleMethodCall(
		m,
		"CreateFile",
		file,
		line,
		[]interface{}{p0, p1})

	if len(retVals) != 2 {
		panic(fmt.Sprintf("mockFileSystem.CreateFile: invalid return values: %v", retVals))
	}

	// o0 io.WriteCloser
	if retVals[0] != nil {
		o0 = retVals[0].(io.WriteCloser)
	}

	// o1 error
	if retVals[1] != nil {
		o1 = retVals[1].(error)
	}

	return
}

func (m *mockFileSystem) MkdirAll(p0 string, p1 os.FileMode) (o0 error) {
	// Get a file name and line number for the caller.
	_, file, line, _ := runtime.Caller(1)

	// Hand the call off to the controller, which does most of the work.
	retVals := m.controller.HandleMethodCall(
		m,
		"MkdirAll",
		file,
		line,
		[]interface{}{p0, p1})

	if len(retVals) != 1 {
		panic(fmt.Sprintf("mockFileSystem.MkdirAll: invalid return values: %v", retVals))
	}

	// o0 error
	if retVals[0] != nil {
		o0 = retVals[0].(error)
	}

	return
}

func (m *mockFileSystem) OpenForReading(p0 string) (o0 io.ReadCloser, o1 error) {
	// Get a file name and line number for the caller.
	_, file, line, _ := runtime.Caller(1)

	// Hand the call off to the controller, which does most of the work.
	retVals := m.controller.HandleMethodCall(
		m,
		"OpenForReading",
		file,
		line,
		[]interface{}{p0})

	if len(retVals) != 2 {
		panic(fmt.Sprintf("mockFileSystem.OpenForReading: invalid return values: %v", retVals))
	}

	// o0 io.ReadCloser
	if retVals[0] != nil {
		o0 = retVals[0].(io.ReadCloser)
	}

	// o1 error
	if retVals[1] != nil {
		o1 = retVals[1].(error)
	}

	return
}

func (m *mockFileSystem) ReadDir(p0 string) (o0 []*fs.DirectoryEntry, o1 error) {
	// Get a file name and line number for the caller.
	_, file, line, _ := runtime.Caller(1)

	// Hand the call off to the controller, which does most of the work.
	retVals := m.controller.HandleMethodCall(
		m,
		"ReadDir",
		file,
		line,
		[]interface{}{p0})

	if len(retVals) != 2 {
		panic(fmt.Sprintf("mockFileSystem.ReadDir: invalid return values: %v", retVals))
	}

	// o0 []*fs.DirectoryEntry
	if retVals[0] != nil {
		o0 = retVals[0].([]*fs.DirectoryEntry)
	}

	// o1 error
	if retVals[1] != nil {
		o1 = retVals[1].(error)
	}

	return
}

func (m *mockFileSystem) RealPath(p0 string) (o0 string, o1 error) {
	// Get a file name and line number for the caller.
	_, file, line, _ := runtime.Caller(1)

	// Hand the call off to the controller, which does most of the work.
	retVals := m.controller.HandleMethodCall(
		m,
		"RealPath",
		file,
		line,
		[]interface{}{p0})

	if len(retVals) != 2 {
		panic(fmt.Sprintf("mockFileSystem.RealPath: invalid return values: %v", retVals))
	}

	// o0 string
	if retVals[0] != nil {
		o0 = retVals[0].(string)
	}

	// o1 error
	if retVals[1] != nil {
		o1 = retVals[1].(error)
	}

	return
}

func (m *mockFileSystem) Stat(p0 string) (o0 os.FileInfo, o1 error) {
	// Get a file name and line number for the caller.
	_, file, line, _ := runtime.Caller(1)

	// Hand the call off to the controller, which does most of the work.
	retVals := m.controller.HandleMethodCall(
		m,
		"Stat",
		file,
		line,
		[]interface{}{p0})

	if len(retVals) != 2 {
		panic(fmt.Sprintf("mockFileSystem.Stat: invalid return values: %v", retVals))
	}

	// o0 os.FileInfo
	if retVals[0] != nil {
		o0 = retVals[0].(os.FileInfo)
	}

	// o1 error
	if retVals[1] != nil {
		o1 = retVals[1].(error)
	}

	return
}
