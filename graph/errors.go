// SPDX-License-Identifier: EPL-2.0

package graph

import "errors"

var (
	ErrPinTaken   = errors.New("input pin already has a source")
	ErrPinType    = errors.New("pin types are incompatible")
	ErrCycle      = errors.New("connection would create a cycle")
	ErrFrozen     = errors.New("graph is frozen")
	ErrForeignPin = errors.New("pin belongs to a node outside the graph")
	ErrNoOutput   = errors.New("graph buffer needs an output node")
	ErrNodeCursor = errors.New("node cursor creation failed")
	ErrNoApplier  = errors.New("custom node has no applier factory")
)
