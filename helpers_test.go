package gridplan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pdrpinto/gridplan/level"
)

const pushLevel = `#domain
hospital
#levelname
push
#colors
red: 0, A
#initial
+++++
+0A +
+++++
#goal
+++++
+  A+
+++++
#end
`

const blueBoxLevel = `#domain
hospital
#levelname
bluebox
#colors
red: 0
blue: A
#initial
+++++
+0A +
+++++
#goal
+++++
+  A+
+++++
#end
`

const pullLevel = `#domain
hospital
#levelname
pull
#colors
red: 0, A
#initial
+++++
+A0 +
+++++
#goal
+++++
+ A +
+++++
#end
`

const meetLevel = `#domain
hospital
#levelname
meet
#colors
red: 0
blue: 1
#initial
+++++
+0 1+
+++++
#goal
+++++
+   +
+++++
#end
`

const sharedBoxLevel = `#domain
hospital
#levelname
sharedbox
#colors
red: 0, 1, A
#initial
++++++
+0A1 +
+    +
++++++
#goal
++++++
+    +
+    +
++++++
#end
`

const roomLevel = `#domain
hospital
#levelname
room
#colors
red: 0
#initial
+++++
+0  +
+   +
+++++
#goal
+++++
+   +
+  0+
+++++
#end
`

func mustParse(t *testing.T, text string) *level.Level {
	t.Helper()
	lv, err := level.Parse(strings.NewReader(text))
	require.NoError(t, err)
	return lv
}
