package scheduler

import stderrors "errors"

var errMissingDelegate = stderrors.New("toolbox has no delegate")
