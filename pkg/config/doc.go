/*
Package config loads the optional run configuration for catnorm.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   HCL    | |   YAML   | |   JSON   |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Picks a parser by file extension
- Fills defaults for anything left unset
- Converts the result into pipeline options

🔄 Flow:
1. Discover looks for .catnorm.hcl, .catnorm.yaml, .catnorm.yml, .catnorm.json
2. The matching parser decodes the file
3. Validate fills defaults and rejects bad policies, jobs or patterns
4. PipelineOptions builds the replacer and pipeline.Options

🔍 Example:

	templates_dir = "maps"
	output_dir    = env.CATNORM_OUT
	on_malformed  = "skip"
	jobs          = 4

	replacement {
	  fields = "*price"
	  from   = "$"
	  to     = ""
	}
*/
package config
