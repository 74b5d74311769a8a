package validators

import "go.mongodb.org/mongo-driver/bson"

// SettingsValidator covers both singleton documents: "status" carries only
// the switch, "agenda" the window fields. Agenda fields stay optional because
// a partial document is merged over the defaults.
var SettingsValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"_id"},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
				"enum":     []string{"agenda", "status"},
			},

			"status": bson.M{
				"bsonType": "string",
				"enum":     []string{"ON", "OFF"},
			},

			"startDate": bson.M{
				"bsonType": "string",
				"pattern":  `^[0-9]{4}-[0-9]{2}-[0-9]{2}$`,
			},

			"endDate": bson.M{
				"bsonType": "string",
				"pattern":  `^[0-9]{4}-[0-9]{2}-[0-9]{2}$`,
			},

			"daysOfWeek": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"maxItems": 7,
				"items": bson.M{
					"bsonType": []string{"int", "long"},
					"minimum":  0,
					"maximum":  6,
				},
			},

			"startHour": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
				"maximum":  23,
			},

			"endHour": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
				"maximum":  23,
			},

			"interval": bson.M{
				"bsonType": []string{"int", "long"},
				"enum":     []int{15, 20, 30, 60},
			},
		},
	},
}
