package hostcfg

import (
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"needscfg/internal/engine"
)

// Recognized exporter options in the host configuration.
const (
	OptOutpath            = "needscfg_outpath"
	OptWarnOnDiff         = "needscfg_warn_on_diff"
	OptOverwrite          = "needscfg_overwrite"
	OptWriteAll           = "needscfg_write_all"
	OptExcludeDefaults    = "needscfg_exclude_defaults"
	OptAddHeader          = "needscfg_add_header"
	OptExcludeVars        = "needscfg_exclude_vars"
	OptMergeTomlFiles     = "needscfg_merge_toml_files"
	OptRelativePathFields = "needscfg_relative_path_fields"
)

// DefaultOutpath places the document in the build output directory.
const DefaultOutpath = "${outdir}/ubproject.toml"

// decodeOptions reads the recognized options from the resolved namespace,
// falling back to defaults. Malformed values degrade to a config_error
// warning and the default, never an error.
func decodeOptions(v *viper.Viper) (engine.Options, string, []string, []engine.Message) {
	opts := engine.DefaultOptions()
	var msgs []engine.Message

	warnBad := func(key string, value any) {
		msgs = append(msgs, engine.Warningf(engine.SubtypeConfigError,
			"invalid value for %s: %v - using default", key, value))
	}

	decodeBool := func(key string, target *bool) {
		raw := v.Get(key)
		if raw == nil {
			return
		}
		b, err := cast.ToBoolE(raw)
		if err != nil {
			warnBad(key, raw)
			return
		}
		*target = b
	}

	decodeBool(OptWarnOnDiff, &opts.WarnOnDiff)
	decodeBool(OptOverwrite, &opts.Overwrite)
	decodeBool(OptWriteAll, &opts.WriteAll)
	decodeBool(OptExcludeDefaults, &opts.ExcludeDefaults)
	decodeBool(OptAddHeader, &opts.AddHeader)

	outpath := DefaultOutpath
	if raw := v.Get(OptOutpath); raw != nil {
		s, err := cast.ToStringE(raw)
		if err != nil || s == "" {
			warnBad(OptOutpath, raw)
		} else {
			outpath = s
		}
	}

	if raw := v.Get(OptExcludeVars); raw != nil {
		list, err := cast.ToStringSliceE(raw)
		if err != nil {
			warnBad(OptExcludeVars, raw)
		} else {
			opts.ExcludeVars = list
		}
	}

	var mergeTemplates []string
	if raw := v.Get(OptMergeTomlFiles); raw != nil {
		list, err := cast.ToStringSliceE(raw)
		if err != nil {
			warnBad(OptMergeTomlFiles, raw)
		} else {
			mergeTemplates = list
		}
	}

	fields, fieldMsgs := decodeRelativePathFields(v.Get(OptRelativePathFields))
	opts.RelativePathFields = fields
	msgs = append(msgs, fieldMsgs...)

	return opts, outpath, mergeTemplates, msgs
}

// decodeRelativePathFields accepts entries that are either plain pattern
// strings or {field, prefix, suffix} records.
func decodeRelativePathFields(raw any) ([]engine.RelativePathField, []engine.Message) {
	if raw == nil {
		return nil, nil
	}

	entries, err := cast.ToSliceE(raw)
	if err != nil {
		return nil, []engine.Message{engine.Warningf(engine.SubtypeConfigError,
			"invalid %s value (must be a list): %v", OptRelativePathFields, raw)}
	}

	var fields []engine.RelativePathField
	var msgs []engine.Message
	for _, entry := range entries {
		switch e := entry.(type) {
		case string:
			fields = append(fields, engine.RelativePathField{Field: e})
		case map[string]any:
			var f engine.RelativePathField
			if err := mapstructure.Decode(e, &f); err != nil {
				msgs = append(msgs, engine.Warningf(engine.SubtypeConfigError,
					"invalid %s entry: %v", OptRelativePathFields, entry))
				continue
			}
			if f.Field == "" {
				msgs = append(msgs, engine.Warningf(engine.SubtypeConfigError,
					"%s entry missing 'field': %v", OptRelativePathFields, entry))
				continue
			}
			fields = append(fields, f)
		default:
			msgs = append(msgs, engine.Warningf(engine.SubtypeConfigError,
				"invalid %s entry (must be string or table): %v", OptRelativePathFields, entry))
		}
	}
	return fields, msgs
}
