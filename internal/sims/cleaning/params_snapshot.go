package cleaning

import (
	"strconv"

	"cleanbots/internal/core"
)

// Parameters describes the model configuration and live metrics.
func (m *Model) Parameters() core.ParameterSnapshot {
	start := m.cfg.StartCell()
	groups := []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				intParam("w", "Width", m.cfg.Width),
				intParam("h", "Height", m.cfg.Height),
				int64Param("seed", "Seed", m.cfg.Seed),
				stringParam("edge", "Edge policy", m.cfg.Edge.String()),
			},
		},
		{
			Name: "Agents",
			Params: []core.Parameter{
				intParam("agents", "Agent count", m.cfg.Agents),
				stringParam("start", "Start cell", strconv.Itoa(start.X)+","+strconv.Itoa(start.Y)),
				boolParam("shuffle", "Shuffle schedule", m.cfg.ShuffleSchedule),
			},
		},
		{
			Name: "Dirt",
			Params: []core.Parameter{
				floatParam("dirty", "Dirty fraction", m.cfg.DirtyFraction),
				intParam("dirty_count", "Initial dirty tiles", m.cfg.DirtyCount()),
			},
		},
		{
			Name: "Progress",
			Params: []core.Parameter{
				intParam("tick", "Tick", m.tick),
				intParam("dirty_left", "Dirty tiles left", m.dirty),
				floatParam("clean_fraction", "Clean fraction", m.CleanFraction()),
				intParam("total_moves", "Total moves", m.totalMoves),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}

func boolParam(key, label string, value bool) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeBool,
		Value: strconv.FormatBool(value),
	}
}

func stringParam(key, label, value string) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeString,
		Value: value,
	}
}
