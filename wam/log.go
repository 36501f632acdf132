package wam

import (
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("wam")
