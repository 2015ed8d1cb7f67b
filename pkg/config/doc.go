// Package config decodes on-disk field-configuration documents into the
// engine's FieldConfig map. Documents are YAML (JSON works too, being a YAML
// subset); a rule reference is either a bare rule name or a mapping with
// name, params, and an optional message override:
//
//	fields:
//	  email:
//	    rules: [required, email]
//	  password:
//	    rules:
//	      - required
//	      - name: password
//	        params: {minLength: 10}
//	        message: Pick a stronger password
package config
