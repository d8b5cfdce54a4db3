package types

import (
	"strings"
)

// TypeTag is the canonical string form of a runtime type, e.g.
// "0x2::coin::Coin<0x2::sui::SUI>". Comparable, so it can key caches
// directly.
type TypeTag string

// GasCoinTypeTag is the native coin type, used as the fallback when a coin
// object's struct carries no type parameters.
const GasCoinTypeTag TypeTag = "0x2::sui::SUI"

// ModuleID names one module within a published package.
type ModuleID struct {
	Package ObjectID
	Name    string
}

func (m ModuleID) String() string {
	return m.Package.String() + "::" + m.Name
}

// StructTag names a struct type with its instantiation.
type StructTag struct {
	Package    ObjectID  `msgpack:"p"`
	Module     string    `msgpack:"m"`
	Name       string    `msgpack:"n"`
	TypeParams []TypeTag `msgpack:"t"`
}

func (s StructTag) String() string {
	var b strings.Builder
	b.WriteString(s.Package.String())
	b.WriteString("::")
	b.WriteString(s.Module)
	b.WriteString("::")
	b.WriteString(s.Name)
	if len(s.TypeParams) > 0 {
		b.WriteByte('<')
		for i, tp := range s.TypeParams {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(string(tp))
		}
		b.WriteByte('>')
	}
	return b.String()
}

// TypeTag returns the canonical tag of the struct type itself.
func (s StructTag) TypeTag() TypeTag { return TypeTag(s.String()) }
