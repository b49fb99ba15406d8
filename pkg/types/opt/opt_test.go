package opt_test

import (
	"testing"

	"github.com/andreyxaxa/Photo-QC/pkg/types/opt"
	"github.com/stretchr/testify/assert"
)

func TestOption(t *testing.T) {
	some := opt.Some(3.5)
	v, ok := some.Get()
	assert.True(t, ok)
	assert.Equal(t, 3.5, v)
	assert.Equal(t, 3.5, *some.Ptr())
	assert.Equal(t, "3.5", some.String())

	none := opt.None[string]()
	assert.False(t, none.IsSome())
	assert.Nil(t, none.Ptr())
	assert.Equal(t, "fallback", none.OrElse("fallback"))
	assert.Equal(t, "<none>", none.String())
}

func TestFromPtr(t *testing.T) {
	assert.False(t, opt.FromPtr[int](nil).IsSome())

	n := 7
	o := opt.FromPtr(&n)
	n = 8
	assert.Equal(t, 7, o.OrElse(0))
}
