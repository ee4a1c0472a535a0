// Copyright 2025 Sonic Labs
// This file is part of Distat
//
// Distat is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Distat is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Distat. If not, see <http://www.gnu.org/licenses/>.

package visualizer

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/0xsoniclabs/distat/dice"
	"github.com/0xsoniclabs/distat/report"
	"github.com/cockroachdb/errors"
)

var (
	errNoView    = errors.New("visualizer: distributions not initialised")
	errNoDist    = errors.New("visualizer: no such distribution")
	errNoRollDef = errors.New("visualizer: distribution has no roll definition")
)

type viewState struct {
	dists     []*dice.Dist
	summaries []report.Summary
}

var (
	currentMu    sync.RWMutex
	currentState *viewState
)

func setViewState(dists []*dice.Dist) error {
	derived, err := buildViewState(dists)
	if err != nil {
		return err
	}
	currentMu.Lock()
	currentState = derived
	currentMu.Unlock()
	return nil
}

func buildViewState(dists []*dice.Dist) (*viewState, error) {
	if len(dists) == 0 {
		return nil, errors.New("visualizer: no distributions")
	}
	view := &viewState{
		dists:     make([]*dice.Dist, len(dists)),
		summaries: make([]report.Summary, len(dists)),
	}
	for i, d := range dists {
		if d == nil {
			return nil, errors.Newf("visualizer: distribution %d is nil", i)
		}
		view.dists[i] = d
		view.summaries[i] = report.Summarize(distName(i, d), d)
	}
	return view, nil
}

// distName labels a distribution by its roll definition, or by position.
func distName(i int, d *dice.Dist) string {
	if d.RollDef != nil && d.RollDef.Name != "" {
		return d.RollDef.Name
	}
	return "dist-" + strconv.Itoa(i)
}

func currentView() (*viewState, error) {
	currentMu.RLock()
	defer currentMu.RUnlock()
	if currentState == nil {
		return nil, errNoView
	}
	return currentState, nil
}

// lookup resolves the {index} path value of a request.
func (v *viewState) lookup(r *http.Request) (int, *dice.Dist, error) {
	i, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || i < 0 || i >= len(v.dists) {
		return 0, nil, errors.Wrapf(errNoDist, "index %q", r.PathValue("index"))
	}
	return i, v.dists[i], nil
}
