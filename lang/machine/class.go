package machine

import (
	"fmt"

	"github.com/dolthub/swiss"
)

// constructorName is the reserved method name invoked automatically when a
// class is called; mirrors compiler.constructorName.
const constructorName = "new"

// Class is a named collection of methods. Methods are added one at a time,
// after the class object itself has been pushed, by the METHOD opcode.
type Class struct {
	Name    string
	Methods *swiss.Map[string, *Closure]
}

var _ Value = (*Class)(nil)

func NewClass(name string) *Class {
	return &Class{Name: name, Methods: swiss.NewMap[string, *Closure](0)}
}

func (c *Class) String() string { return c.Name }
func (c *Class) Type() string   { return "class" }

// FindMethod looks up name directly on c (INHERIT already flattened
// inherited methods into the subclass's own map at class-definition time,
// so no walk up a superclass chain is needed here).
func (c *Class) FindMethod(name string) (*Closure, bool) {
	return c.Methods.Get(name)
}

// Instance is an object created by calling a Class. Fields are added on
// first assignment; there is no fixed field layout.
type Instance struct {
	Class  *Class
	Fields *swiss.Map[string, Value]
}

var _ Value = (*Instance)(nil)

func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: swiss.NewMap[string, Value](0)}
}

func (i *Instance) String() string { return fmt.Sprintf("%s instance", i.Class.Name) }
func (i *Instance) Type() string   { return "instance" }

// BoundMethod pairs a method Closure with the receiver it was looked up
// on, so that calling it is equivalent to calling the method with the
// receiver already bound to slot 0.
type BoundMethod struct {
	Receiver Value
	Method   *Closure
}

var _ Value = (*BoundMethod)(nil)

func (b *BoundMethod) String() string { return b.Method.String() }
func (b *BoundMethod) Type() string   { return "function" }
