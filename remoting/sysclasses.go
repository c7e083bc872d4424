// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package remoting

import "github.com/saferwall/msnrbf"

// init declares the handful of SYSTEMLIB classes that show up on real
// .NET Remoting traffic: the exception carried on an error reply, and
// the Hashtable (plus its supporting comparer/hash-code-provider
// classes) that backs a CallContext's user data. Declared once, at
// process init, into the package-wide registry.
func init() {
	must(msnrbf.DefaultRegistry.Declare(RemotingException))
	must(msnrbf.DefaultRegistry.Declare(CompareInfo))
	must(msnrbf.DefaultRegistry.Declare(TextInfo))
	must(msnrbf.DefaultRegistry.Declare(CaseInsensitiveComparer))
	must(msnrbf.DefaultRegistry.Declare(CaseInsensitiveHashCodeProvider))
	must(msnrbf.DefaultRegistry.Declare(Hashtable))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// RemotingException is System.Runtime.Remoting.RemotingException, the
// shape an error_reply places in a return's call array.
var RemotingException = msnrbf.RemotingClass{
	Name:    "System.Runtime.Remoting.RemotingException",
	Library: msnrbf.SystemLib,
	Members: []msnrbf.MemberSpec{
		{WireName: "ClassName", Tag: msnrbf.BinaryString, Default: "System.Runtime.Remoting.RemotingException"},
		{WireName: "Message", Tag: msnrbf.BinaryString},
		{WireName: "HelpUrl", Tag: msnrbf.BinaryString},
		{WireName: "InnerException", Tag: msnrbf.BinaryString, ClassName: "System.Exception"},
		{WireName: "StackTraceString", Tag: msnrbf.BinaryString},
		{WireName: "RemoteStackTraceString", Tag: msnrbf.BinaryString},
		{WireName: "RemoteStackIndex", Tag: msnrbf.BinaryPrimitive, PrimTag: msnrbf.PrimitiveInt32, Default: int32(0)},
		{WireName: "ExceptionMethod", Tag: msnrbf.BinaryString},
		{WireName: "HResult", Tag: msnrbf.BinaryPrimitive, PrimTag: msnrbf.PrimitiveInt32, Default: int32(-2146233077)},
		{WireName: "Source", Tag: msnrbf.BinaryString},
	},
}

// CompareInfo is System.Globalization.CompareInfo.
var CompareInfo = msnrbf.RemotingClass{
	Name:    "System.Globalization.CompareInfo",
	Library: msnrbf.SystemLib,
	Members: []msnrbf.MemberSpec{
		{WireName: "win32LCID", Tag: msnrbf.BinaryPrimitive, PrimTag: msnrbf.PrimitiveInt32},
		{WireName: "culture", Tag: msnrbf.BinaryPrimitive, PrimTag: msnrbf.PrimitiveInt32},
	},
}

// TextInfo is System.Globalization.TextInfo.
var TextInfo = msnrbf.RemotingClass{
	Name:    "System.Globalization.TextInfo",
	Library: msnrbf.SystemLib,
	Members: []msnrbf.MemberSpec{
		{WireName: "m_nDataItem", Tag: msnrbf.BinaryPrimitive, PrimTag: msnrbf.PrimitiveInt32},
		{WireName: "m_userUserOverride", Tag: msnrbf.BinaryPrimitive, PrimTag: msnrbf.PrimitiveBoolean},
		{WireName: "m_win32LangID", Tag: msnrbf.BinaryPrimitive, PrimTag: msnrbf.PrimitiveInt32},
	},
}

// CaseInsensitiveComparer is System.Collections.CaseInsensitiveComparer.
var CaseInsensitiveComparer = msnrbf.RemotingClass{
	Name:    "System.Collections.CaseInsensitiveComparer",
	Library: msnrbf.SystemLib,
	Members: []msnrbf.MemberSpec{
		{WireName: "m_compareInfo", Tag: msnrbf.BinarySystemClass, ClassName: "System.Globalization.CompareInfo"},
	},
}

// CaseInsensitiveHashCodeProvider is
// System.Collections.CaseInsensitiveHashCodeProvider.
var CaseInsensitiveHashCodeProvider = msnrbf.RemotingClass{
	Name:    "System.Collections.CaseInsensitiveHashCodeProvider",
	Library: msnrbf.SystemLib,
	Members: []msnrbf.MemberSpec{
		{WireName: "m_text", Tag: msnrbf.BinarySystemClass, ClassName: "System.Globalization.TextInfo"},
	},
}

// Hashtable is System.Collections.Hashtable, the class backing a remote
// CallContext's user-data dictionary.
var Hashtable = msnrbf.RemotingClass{
	Name:    "System.Collections.Hashtable",
	Library: msnrbf.SystemLib,
	Members: []msnrbf.MemberSpec{
		{WireName: "LoadFactor", Tag: msnrbf.BinaryPrimitive, PrimTag: msnrbf.PrimitiveSingle, Default: float32(0.72000002861)},
		{WireName: "Version", Tag: msnrbf.BinaryPrimitive, PrimTag: msnrbf.PrimitiveInt32, Default: int32(2)},
		{WireName: "Comparer", Tag: msnrbf.BinarySystemClass, ClassName: "System.Collections.CaseInsensitiveComparer"},
		{WireName: "HashCodeProvider", Tag: msnrbf.BinarySystemClass, ClassName: "System.Collections.CaseInsensitiveHashCodeProvider"},
		{WireName: "HashSize", Tag: msnrbf.BinaryPrimitive, PrimTag: msnrbf.PrimitiveInt32},
		{WireName: "Keys", Tag: msnrbf.BinaryObjectArray},
		{WireName: "Values", Tag: msnrbf.BinaryObjectArray},
	},
}
