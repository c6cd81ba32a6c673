package engine

import (
	"unicode/utf8"

	"github.com/roach88/socialgraph/internal/ir"
	"github.com/roach88/socialgraph/internal/record"
)

// Field validation. Each rule checks length before emptiness, and callers
// check the tag before content, which fixes which code wins when several
// fields are invalid at once.

func checkTag(c *call, tag string) error {
	if record.CharCount(tag) > record.MaxTagChars {
		return reject(c, CodeTagTooLong, "Exceeding maximum tag length of %d characters", record.MaxTagChars)
	}
	return nil
}

// checkContent validates the body of a tweet, comment or direct message.
// noun names the record in the NoContent message.
func checkContent(c *call, noun, content string) error {
	n := record.CharCount(content)
	if n > record.MaxContentChars {
		return reject(c, CodeContentTooLong, "Exceeding maximum content length of %d characters", record.MaxContentChars)
	}
	if n == 0 {
		return reject(c, CodeNoContent, "Trying to send a %s without content", noun)
	}
	return nil
}

func checkAlias(c *call, alias string) error {
	n := record.CharCount(alias)
	if n > record.MaxAliasChars {
		return reject(c, CodeContentTooLong, "Exceeding maximum alias length of %d characters", record.MaxAliasChars)
	}
	if n == 0 {
		return reject(c, CodeNoContent, "Trying to register an empty alias")
	}
	return nil
}

// checkEncoding rejects an instruction whose tag, content or alias is not
// valid UTF-8. It runs before the instruction takes a seq: the journal
// stores args as JSON, which cannot carry the raw bytes, so such an
// instruction could be neither stored as a record nor replayed.
func checkEncoding(ins ir.Instruction) error {
	fields := []struct{ name, value string }{
		{"tag", ins.Args.Tag},
		{"content", ins.Args.Content},
		{"alias", ins.Args.Alias},
	}
	for _, f := range fields {
		if !utf8.ValidString(f.value) {
			c := &call{ins: ins, addr: ins.Address}
			return reject(c, CodeInvalidInstruction, "%s is not valid UTF-8", f.name)
		}
	}
	return nil
}
