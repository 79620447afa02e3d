package grammar

// Template is one fixed command pattern of the benchmark catalogue,
// identified by its generator id and paired with the English label the
// formatter speaks back to the operator.
//
// Pattern text is lower-case English with typed slot placeholders of the
// form "{kind name}" (name omitted for non-capturing kinds). Slots typed
// by a vocabulary alternate over the runtime Configuration; fixed word
// lists (verbs, gestures, clothing, talk topics, …) are benchmark
// constants and live below, versioned with the catalogue rather than
// with the arena vocabulary.
type Template struct {
	ID      string
	Label   string
	Pattern string
}

// Catalog is the closed set of 23 command templates. Declaration order is
// the tie-break order for equally specific matches, so it is part of the
// catalogue's contract.
var Catalog = []Template{
	{
		ID:      "goToLoc",
		Label:   "Go to location",
		Pattern: "{verb go} to the {location location}",
	},
	{
		ID:      "takeObjFromPlcmt",
		Label:   "Take object from placement",
		Pattern: "{verb take} the {objects object} from the {placement placement}",
	},
	{
		ID:      "findPrsInRoom",
		Label:   "Find person in room",
		Pattern: "{verb find} {article} {gestureperson person} in the {room room}",
	},
	{
		ID:      "findObjInRoom",
		Label:   "Find object in room",
		Pattern: "{verb find} {article} {objectorcategory object} in the {room room}",
	},
	{
		ID:      "meetPrsAtBeac",
		Label:   "Meet person at location",
		Pattern: "{verb meet} {person name} at the {location location}",
	},
	{
		ID:      "countObjOnPlcmt",
		Label:   "Count objects on placement",
		Pattern: "tell me how many {categoryplural object_category_plural} there are on the {placement placement}",
	},
	{
		ID:      "countPrsInRoom",
		Label:   "Count people in room",
		Pattern: "tell me how many people in the {room room} are {gesture gesture}",
	},
	{
		ID:      "tellPrsInfoInLoc",
		Label:   "Tell person info at location",
		Pattern: "tell me the {personinfo info} of the person in the {location location}",
	},
	{
		ID:      "tellObjPropOnPlcmt",
		Label:   "Tell object property on placement",
		Pattern: "tell me what is the {comparative property} object on the {placement placement}",
	},
	{
		ID:      "talkInfoToGestPrsInRoom",
		Label:   "Talk info to person in room",
		Pattern: "{verb talk} {topic topic} to the {gestureperson person} in the {room room}",
	},
	{
		ID:      "answerToGestPrsInRoom",
		Label:   "Answer question of person in room",
		Pattern: "answer the {question question} of the {gestureperson person} in the {room room}",
	},
	{
		ID:      "followNameFromBeacToRoom",
		Label:   "Follow person from location to room",
		Pattern: "{verb follow} {person name} from the {location location} to the {room room}",
	},
	{
		ID:      "guideNameFromBeacToBeac",
		Label:   "Guide person from location to location",
		Pattern: "{verb guide} {person name} from the {location location} to the {location destination}",
	},
	{
		ID:      "guidePrsFromBeacToBeac",
		Label:   "Guide person at location to location",
		Pattern: "{verb guide} the {gestureperson person} from the {location location} to the {location destination}",
	},
	{
		ID:      "guideClothPrsFromBeacToBeac",
		Label:   "Guide person wearing clothing from location to location",
		Pattern: "{verb guide} the person wearing {article} {clothing clothing} from the {location location} to the {location destination}",
	},
	{
		ID:      "greetClothDscInRm",
		Label:   "Greet person wearing clothing in room",
		Pattern: "{verb greet} the person wearing {article} {clothing clothing} in the {room room}",
	},
	{
		ID:      "greetNameInRm",
		Label:   "Greet person in room",
		Pattern: "{verb greet} {person name} in the {room room}",
	},
	{
		ID:      "meetNameAtLocThenFindInRm",
		Label:   "Meet person at location then find them in room",
		Pattern: "{verb meet} {person name} at the {location location} then find them in the {room room}",
	},
	{
		ID:      "countClothPrsInRoom",
		Label:   "Count people wearing clothing in room",
		Pattern: "tell me how many people in the {room room} are wearing {clothingplural clothing}",
	},
	{
		ID:      "tellPrsInfoAtLocToPrsAtLoc",
		Label:   "Tell person info at location to person at location",
		Pattern: "tell the {personinfo info} of the person at the {location location} to the person at the {location destination}",
	},
	{
		ID:      "followPrsAtLoc",
		Label:   "Follow person at location",
		Pattern: "{verb follow} the {gestureperson person} at the {location location}",
	},
	{
		ID:      "bringMeObjFromPlcmt",
		Label:   "Bring me object from placement",
		Pattern: "{verb bring} me the {objects object} from the {placement placement}",
	},
	{
		ID:      "tellCatPropOnPlcmt",
		Label:   "Tell category property on placement",
		Pattern: "tell me what is the {comparative property} {categorysingular object_category_singular} on the {placement placement}",
	},
}

// verbSynonyms maps each verb class to the surface forms the benchmark
// command generator chooses among. The parser accepts any of them.
var verbSynonyms = map[string][]string{
	"go":     {"go", "navigate"},
	"take":   {"take", "get", "grab", "fetch"},
	"find":   {"find", "locate", "look for"},
	"meet":   {"meet"},
	"talk":   {"tell", "say"},
	"greet":  {"greet", "salute", "say hello to", "introduce yourself to"},
	"bring":  {"bring", "give", "deliver"},
	"follow": {"follow"},
	"guide":  {"guide", "escort", "lead"},
}

// gesturePersons are the person descriptions the generator composes from
// its gesture and pose lists, plus the bare "person".
var gesturePersons = []string{
	"person",
	"waving person",
	"person raising their left arm",
	"person raising their right arm",
	"person pointing to the left",
	"person pointing to the right",
	"sitting person",
	"standing person",
	"lying person",
}

// gestureAttrs are the predicative forms used after "are" in counting
// commands ("how many people … are waving").
var gestureAttrs = []string{
	"waving",
	"raising their left arm",
	"raising their right arm",
	"pointing to the left",
	"pointing to the right",
	"sitting",
	"standing",
	"lying down",
}

var personInfo = []string{"name", "pose", "gesture"}

var talkTopics = []string{
	"something about yourself",
	"the time",
	"what day is today",
	"what day is tomorrow",
	"your teams name",
	"your teams country",
	"your teams affiliation",
	"the day of the week",
	"the day of the month",
}

var questionWords = []string{"question", "quiz"}

var comparatives = []string{
	"biggest",
	"largest",
	"smallest",
	"heaviest",
	"lightest",
	"thinnest",
}

var clothingColors = []string{
	"blue",
	"yellow",
	"black",
	"white",
	"red",
	"orange",
	"gray",
}

var garments = []string{"t shirt", "shirt", "blouse", "sweater", "coat", "jacket"}

var garmentsPlural = []string{"t shirts", "shirts", "blouses", "sweaters", "coats", "jackets"}
