package plugin

// ManifestSchema is the JSON Schema for plugin manifest validation
const ManifestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["id", "name", "version", "main"],
  "properties": {
    "id": {
      "type": "string",
      "pattern": "^[a-z0-9-]+$",
      "description": "Unique plugin identifier"
    },
    "name": {
      "type": "string",
      "minLength": 1
    },
    "version": {
      "type": "string",
      "minLength": 1,
      "description": "Semver version"
    },
    "description": { "type": "string" },
    "author": { "type": "string" },
    "main": {
      "type": "string",
      "minLength": 1,
      "description": "Plugin executable, relative to the plugin directory"
    },
    "host": {
      "type": "string",
      "description": "Semver constraint on the host version (e.g., >=0.1.0)"
    },
    "dependencies": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["pluginId"],
        "properties": {
          "pluginId": { "type": "string", "minLength": 1 },
          "version": { "type": "string" }
        }
      }
    },
    "tools": {
      "type": "array",
      "uniqueItems": true,
      "items": { "type": "string", "minLength": 1 }
    },
    "config": { "type": "object" }
  }
}`
