package cparse

import "github.com/ccqual/ccqual/internal/cast"

// ParseFile is the package's entry point: lex and parse src (already
// read from path) into a *cast.TranslationUnit. isSystemHeader marks
// every declaration in the result as living outside the project
// (spec.md §4.2's InSystemHdr, which add_variable uses to skip CV
// allocation for declarations this program was never asked to check).
func ParseFile(path, src string, isSystemHeader bool) (*cast.TranslationUnit, error) {
	p, err := NewParser(path, src)
	if err != nil {
		return nil, err
	}
	tu, err := p.ParseFile()
	if err != nil {
		return nil, err
	}
	if isSystemHeader {
		markSystemHeader(tu)
	}
	return tu, nil
}

func markSystemHeader(tu *cast.TranslationUnit) {
	for _, d := range tu.Decls {
		switch v := d.(type) {
		case *cast.DeclStmt:
			for _, vd := range v.Decls {
				vd.InSystemHdr = true
			}
		case *cast.FuncDecl:
			v.InSystemHdr = true
			for _, pd := range v.ParamDecls {
				pd.InSystemHdr = true
			}
		case *cast.StructDecl:
			v.InSystemHdr = true
			for _, fd := range v.Fields {
				fd.InSystemHdr = true
			}
		}
	}
}
