package csvtable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLine_QuotedComma(t *testing.T) {
	fields := cleanFields(SplitLine(`"Doe, Jane",22227,Present`))
	assert.Equal(t, []string{"Doe, Jane", "22227", "Present"}, fields)
}

func TestSplitLine(t *testing.T) {
	cases := []struct {
		line string
		want []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{"a,,c", []string{"a", "", "c"}},
		{"", []string{""}},
		{`"x,y","z"`, []string{`"x,y"`, `"z"`}},
		{`a,"b,c,d",e`, []string{"a", `"b,c,d"`, "e"}},
		// an odd quote count after the first comma keeps it inside the field
		{`a,b"c,d`, []string{`a,b"c`, "d"}},
	}
	for _, c := range cases {
		got := SplitLine(c.line)
		assert.Equal(t, c.want, got, "SplitLine(%q)", c.line)
	}
}

func TestParse_Basic(t *testing.T) {
	text := "student_id,\"student_name\", status \r\n101,\"Doe, Jane\",Present\r\n102, Bob ,Absent\r\n"

	rows := Parse(text)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{"student_id", "student_name", "status"}, rows[0].Headers())

	name, ok := rows[0].Get("student_name")
	assert.True(t, ok)
	assert.Equal(t, "Doe, Jane", name)

	name, _ = rows[1].Get("student_name")
	assert.Equal(t, "Bob", name)
}

func TestParse_SkipsBlankLines(t *testing.T) {
	text := "\n\nid,status\n\n  \n1,present\n\n2,absent\n\n"

	rows := Parse(text)
	require.Len(t, rows, 2)

	id, _ := rows[1].Get("id")
	assert.Equal(t, "2", id)
}

func TestParse_ShortRowPadsWithEmpty(t *testing.T) {
	rows := Parse("id,name,status\n7")
	require.Len(t, rows, 1)

	status, ok := rows[0].Get("status")
	assert.True(t, ok)
	assert.Equal(t, "", status)
}

func TestParse_ExtraFieldsIgnored(t *testing.T) {
	rows := Parse("id\n1,2,3")
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"id"}, rows[0].Headers())
}

func TestParse_Empty(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("\r\n\r\n"))
	assert.Empty(t, Parse("id,status\n"))
}

func TestPick_ExactBeforeCaseInsensitive(t *testing.T) {
	row := NewRow([]string{"STATUS", "attendance"}, []string{"absent", "present"})

	// "status" has no exact match, "attendance" does, so the exact pass wins.
	v, ok := row.Pick("status", "attendance")
	assert.True(t, ok)
	assert.Equal(t, "present", v)
}

func TestPick_CaseInsensitiveFallback(t *testing.T) {
	row := NewRow([]string{"Student_ID", "Name"}, []string{"42", "Ada"})

	v, ok := row.Pick("student_id", "studentid", "id")
	assert.True(t, ok)
	assert.Equal(t, "42", v)
}

func TestPick_SkipsEmptyValues(t *testing.T) {
	row := NewRow([]string{"student_name", "name"}, []string{"", "Ada"})

	v, ok := row.Pick("student_name", "name", "student")
	assert.True(t, ok)
	assert.Equal(t, "Ada", v)
}

func TestPick_AliasOrderIsAuthoritative(t *testing.T) {
	row := NewRow([]string{"id", "student_id"}, []string{"row-1", "S-9"})

	v, _ := row.Pick("student_id", "studentid", "id")
	assert.Equal(t, "S-9", v)
}

func TestPick_Missing(t *testing.T) {
	row := NewRow([]string{"a"}, []string{"1"})

	v, ok := row.Pick("b", "c")
	assert.False(t, ok)
	assert.Equal(t, "", v)
}

func TestNewRow_DuplicateHeaderKeepsLast(t *testing.T) {
	row := NewRow([]string{"id", "id"}, []string{"1", "2"})

	v, _ := row.Get("id")
	assert.Equal(t, "2", v)
	assert.Equal(t, []string{"id"}, row.Headers())
}
