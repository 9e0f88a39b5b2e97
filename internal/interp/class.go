package interp

// Class is a runtime class value: a name and its method table. Calling
// a Class constructs an Instance and, if an `init` method exists,
// invokes it with the call's arguments.
//
// Inheritance is out of scope (spec.md §9's Open Question) — there is no
// superclass field here, matching the teacher precedent of leaving an
// unexercised slot absent rather than stubbed.
type Class struct {
	Name    string
	Methods map[string]*Function
}

// NewClass creates a class value with the given method table.
func NewClass(name string, methods map[string]*Function) *Class {
	return &Class{Name: name, Methods: methods}
}

// FindMethod looks up name in the class's own method table.
func (c *Class) FindMethod(name string) (*Function, bool) {
	m, ok := c.Methods[name]
	return m, ok
}

// Arity is the arity of `init`, or 0 if the class declares none.
func (c *Class) Arity() int {
	if init, ok := c.FindMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

// Call constructs a new Instance and runs its initializer, if any.
func (c *Class) Call(interp *Interpreter, args []Value) (Value, error) {
	instance := NewInstance(c)
	if init, ok := c.FindMethod("init"); ok {
		if _, err := init.Bind(instance).Call(interp, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

func (c *Class) String() string {
	return "<class " + c.Name + ">"
}

// Instance is a runtime object: a class pointer and a field table.
// Field lookup precedes method lookup, and a matching method is
// returned bound to this instance (spec.md §4.4).
type Instance struct {
	Class  *Class
	fields map[string]Value
}

// NewInstance creates a field-less instance of class.
func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, fields: make(map[string]Value)}
}

// Get resolves obj.name: a field if present, otherwise a bound method.
func (i *Instance) Get(name string) (Value, bool) {
	if v, ok := i.fields[name]; ok {
		return v, true
	}
	if method, ok := i.Class.FindMethod(name); ok {
		return method.Bind(i), true
	}
	return nil, false
}

// Set assigns (creating if absent) the field named name.
func (i *Instance) Set(name string, value Value) {
	i.fields[name] = value
}

func (i *Instance) String() string {
	return "<instance " + i.Class.Name + ">"
}
