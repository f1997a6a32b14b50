package w2vpin

import (
	"math"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/kho/easy"
	"github.com/kho/stream"
)

// pinnedDims is the number of leading dimensions IsPinned inspects.
// Fixed at 5 because exactly five semantic channels are wired by
// ApplyBuiltins (gender, latitude, log-mass, has-wheels, is-dangerous).
const pinnedDims = 5

// PinRegistry resolves (word, dimension) pin requests against a
// vocabulary and an EmbeddingMatrices, writing fixed values into syn0
// and clearing the matching pins entries so TrainingKernel never moves
// them again.
type PinRegistry struct {
	vocab *Vocabulary
	mat   *EmbeddingMatrices
}

// NewPinRegistry binds a registry to the vocabulary/matrices pair that
// will be trained together.
func NewPinRegistry(vocab *Vocabulary, mat *EmbeddingMatrices) *PinRegistry {
	return &PinRegistry{vocab: vocab, mat: mat}
}

// Pin locates word in the vocabulary and, if present, writes value into
// syn0[word,dim] and clears pins[word,dim]. An unknown word only logs a
// warning, per spec §7's "Pin of unknown word: Warn, continue".
func (r *PinRegistry) Pin(word string, dim int, value float32) {
	idx, ok := r.vocab.Lookup(word)
	if !ok {
		glog.Warningf("can't pin %q on dimension %d: not found in vocabulary", word, dim)
		return
	}
	off := int(idx)*r.mat.D + dim
	r.mat.Syn0[off] = value
	r.mat.Pins[off] = 0
	glog.V(1).Infof("pinned %q (index %d) dim %d to %v", word, idx, dim, value)
}

// IsPinned reports whether any of the first pinnedDims entries of
// pins[wordIndex] has been cleared.
func (r *PinRegistry) IsPinned(wordIndex int32) bool {
	row := r.mat.Row(r.mat.Pins, wordIndex)
	for d := 0; d < pinnedDims && d < len(row); d++ {
		if row[d] == 0 {
			return true
		}
	}
	return false
}

// ApplyBuiltins resets pins to all-ones and, when enable is true, then
// freezes the five built-in semantic channels over their literal word
// lists.
func (r *PinRegistry) ApplyBuiltins(enable bool) {
	for i := range r.mat.Pins {
		r.mat.Pins[i] = 1
	}
	if !enable {
		return
	}

	for _, p := range genderPins {
		r.Pin(p.word, 0, p.value)
	}

	const degreesPerUnit = 1.0 / 90.0
	for _, p := range cityLatitudePins {
		r.Pin(p.word, 1, float32(p.degrees*degreesPerUnit))
	}

	for _, p := range animalMassPins {
		r.Pin(p.word, 2, float32(encodeMass(p.kg)))
	}

	for _, p := range hasWheelsPins {
		r.Pin(p.word, 3, p.value)
	}

	for _, p := range isDangerousPins {
		r.Pin(p.word, 4, p.value)
	}
}

// encodeMass maps a mass in kilograms onto a log-scale centered on 1kg:
// 1000kg -> 0.3, 1kg -> 0, 1g -> -0.3, 1mg -> -0.6.
func encodeMass(massInKg float64) float64 {
	return math.Log10(massInKg) * 0.1
}

// LoadPinsFromCSV reads a header line followed by "id,property,word,value"
// rows, mapping property "has_wheels"/"is_dangerous" onto dims 3/4. This
// is the alternative to ApplyBuiltins's literal word lists.
func (r *PinRegistry) LoadPinsFromCSV(path string) error {
	in, err := easy.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()
	return stream.Run(stream.EnumRead(in, lineSplit), pinCSVHeader{r})
}

type pinCSVHeader struct{ reg *PinRegistry }

func (it pinCSVHeader) Final() error { return nil }
func (it pinCSVHeader) Next(line []byte) (stream.Iteratee, bool, error) {
	// First non-empty line is the header; skip it unconditionally.
	return pinCSVRows{it.reg}, true, nil
}

type pinCSVRows struct{ reg *PinRegistry }

func (it pinCSVRows) Final() error { return nil }
func (it pinCSVRows) Next(line []byte) (stream.Iteratee, bool, error) {
	fields := strings.SplitN(string(line), ",", 4)
	if len(fields) != 4 {
		return it, true, nil
	}
	property, word := fields[1], fields[2]
	value, err := strconv.ParseFloat(strings.TrimSpace(fields[3]), 32)
	if err != nil {
		return it, true, nil
	}
	switch property {
	case "has_wheels":
		it.reg.Pin(word, 3, float32(value))
	case "is_dangerous":
		it.reg.Pin(word, 4, float32(value))
	}
	return it, true, nil
}

type wordValuePin struct {
	word  string
	value float32
}

type wordDegreesPin struct {
	word    string
	degrees float64
}

type wordMassPin struct {
	word string
	kg   float64
}

// genderPins assigns dimension 0: +1 feminine, -1 masculine.
var genderPins = []wordValuePin{
	{"female", 1}, {"male", -1},
	{"she", 1}, {"he", -1},
	{"queen", 1}, {"king", -1},
	{"duchess", 1}, {"duke", -1},
	{"aunt", 1}, {"uncle", -1},
	{"girl", 1}, {"boy", -1},
	{"niece", 1}, {"nephew", -1},
	{"mother", 1}, {"father", -1},
	{"wife", 1}, {"husband", -1},
	{"nun", 1}, {"priest", -1},
	{"actress", 1}, {"actor", -1},
	{"bride", 1}, {"groom", -1},
	{"lady", 1}, {"gentleman", -1},
	{"waitress", 1}, {"waiter", -1},
}

// cityLatitudePins assigns dimension 1: latitude in degrees / 90.
var cityLatitudePins = []wordDegreesPin{
	{"helsinki", 60}, {"bergen", 60}, {"oslo", 58}, {"stockholm", 58},
	{"edinburgh", 55}, {"copenhagen", 55}, {"moscow", 55}, {"hamburg", 53},
	{"amsterdam", 52}, {"berlin", 52}, {"london", 51}, {"prague", 50},
	{"vancouver", 49}, {"paris", 48}, {"munich", 48}, {"vienna", 48},
	{"budapest", 47}, {"montreal", 45}, {"venice", 45}, {"toronto", 43},
	{"florence", 43}, {"boston", 42}, {"chicago", 41}, {"barcelona", 41},
	{"rome", 41}, {"istanbul", 41}, {"madrid", 40}, {"naples", 40},
	{"beijing", 39}, {"athens", 37}, {"seoul", 37}, {"tokyo", 35},
	{"kyoto", 35}, {"beirut", 33}, {"cairo", 30}, {"delhi", 28},
	{"miami", 25}, {"taipei", 25}, {"macau", 22}, {"honolulu", 21},
	{"hanoi", 21}, {"mumbai", 18}, {"bangkok", 13}, {"caracas", 10},
	{"nairobi", 1},
}

// animalMassPins assigns dimension 2 via encodeMass; masses are in kg.
var animalMassPins = []wordMassPin{
	{"elephant", 5000}, {"hippopotamus", 3750}, {"walrus", 1000},
	{"giraffe", 800}, {"cow", 800}, {"buffalo", 700}, {"horse", 700},
	{"camel", 500}, {"donkey", 400}, {"bear", 300}, {"boar", 180},
	{"lion", 160}, {"gorilla", 140}, {"tiger", 120}, {"human", 70},
	{"cougar", 63}, {"chimpanzee", 45}, {"goat", 40}, {"sheep", 40},
	{"dog", 30}, {"bobcat", 9}, {"rat", 0.5}, {"hamster", 0.16},
	{"gecko", 0.03}, {"ant", 0.00002},
}

// hasWheelsPins assigns dimension 3: 1 for wheeled vehicles, 0 otherwise.
var hasWheelsPins = []wordValuePin{
	{"cabbage", 0}, {"grasshopper", 0}, {"hornet", 0}, {"peach", 0},
	{"donkey", 0}, {"poppy", 0}, {"hippo", 0}, {"tarantula", 0},
	{"bra", 0}, {"elephant", 0}, {"cushion", 0}, {"apple", 0},
	{"sheep", 0}, {"tambourine", 0}, {"bus", 1}, {"crane", 0},
	{"peanut", 0}, {"willow", 0}, {"taxi", 1}, {"flannel", 0},
	{"leg", 0}, {"rabbit", 0}, {"crab", 0}, {"lemonade", 0},
	{"cape", 0}, {"beaver", 0}, {"ship", 0}, {"sock", 0},
	{"bicycle", 1}, {"tiger", 0}, {"tuna", 0}, {"thumb", 0},
	{"eagle", 0}, {"sandwich", 0}, {"gherkin", 0}, {"sycamore", 0},
	{"rhubarb", 0}, {"satsuma", 0}, {"hyena", 0}, {"caravan", 1},
	{"hummingbird", 0}, {"trousers", 0}, {"robe", 0}, {"minibus", 1},
	{"mackerel", 0}, {"apricot", 0}, {"owl", 0}, {"seaweed", 0},
	{"otter", 0}, {"whisky", 0}, {"dolphin", 0}, {"spider", 0},
	{"mussel", 0}, {"emu", 0}, {"locust", 0}, {"peacock", 0},
	{"ostrich", 0}, {"warship", 0}, {"jellyfish", 0}, {"arm", 0},
	{"gorilla", 0}, {"yoghurt", 0}, {"wine", 0}, {"magpie", 0},
	{"truck", 1}, {"butter", 0}, {"salmon", 0}, {"camel", 0},
	{"scorpion", 0}, {"ham", 0}, {"lamb", 0}, {"ambulance", 1},
	{"zebra", 0}, {"flea", 0}, {"daffodil", 0}, {"pineapple", 0},
	{"tea", 0}, {"rice", 0}, {"grapefruit", 0}, {"tomato", 0},
	{"crocodile", 0}, {"coffee", 0}, {"woodpecker", 0}, {"clam", 0},
	{"sled", 0}, {"buggy", 1}, {"termite", 0}, {"lettuce", 0},
	{"calf", 0}, {"parsley", 0}, {"flounder", 0}, {"jelly", 0},
	{"squid", 0}, {"rat", 0}, {"hyacinth", 0}, {"parakeet", 0},
	{"nightingale", 0}, {"carriage", 1}, {"pillow", 0}, {"monkey", 0},
	{"moose", 0}, {"scallop", 0}, {"boat", 0}, {"goat", 0},
	{"cauliflower", 0}, {"motorbike", 1}, {"oyster", 0}, {"leopard", 0},
	{"buzzard", 0}, {"snail", 0}, {"sultana", 0}, {"plum", 0},
	{"falcon", 0}, {"cake", 0}, {"herring", 0}, {"ketchup", 0},
	{"turtle", 0}, {"chocolate", 0}, {"iguana", 0}, {"finger", 0},
	{"bacon", 0}, {"melon", 0}, {"garlic", 0}, {"watermelon", 0},
	{"champagne", 0}, {"train", 1}, {"prune", 0}, {"cheetah", 0},
	{"ear", 0}, {"alligator", 0}, {"raisin", 0}, {"beetle", 0},
	{"sugar", 0}, {"walrus", 0}, {"moth", 0}, {"lemon", 0},
	{"platypus", 0}, {"broccoli", 0}, {"porsche", 1}, {"squirrel", 0},
	{"toe", 0}, {"jam", 0}, {"shrimp", 0}, {"minivan", 1},
	{"cloak", 0}, {"lorry", 1}, {"cucumber", 0}, {"worm", 0},
	{"bike", 1}, {"winch", 0}, {"frog", 0}, {"butterfly", 0},
	{"orange", 0}, {"shark", 0}, {"drum", 0}, {"tugboat", 0},
	{"jacket", 0}, {"raven", 0}, {"shawl", 0}, {"dragonfly", 0},
	{"cap", 0}, {"scarf", 0}, {"wolf", 0}, {"llama", 0},
	{"sunflower", 0}, {"turkey", 0}, {"panther", 0}, {"rhino", 0},
	{"moss", 0}, {"cherry", 0}, {"rattlesnake", 0}, {"grape", 0},
	{"oak", 0}, {"crayfish", 0}, {"hawk", 0}, {"gown", 0},
	{"van", 1}, {"pear", 0}, {"seagull", 0}, {"stockings", 0},
	{"apron", 0}, {"limousine", 1}, {"carrot", 0}, {"cod", 0},
	{"wheeler", 1}, {"blueberry", 0}, {"cricket", 0}, {"doll", 0},
	{"kangaroo", 0}, {"gloves", 0}, {"pony", 0}, {"horse", 0},
	{"chipmunk", 0}, {"sparrow", 0}, {"freighter", 0}, {"cow", 0},
	{"pigeon", 0}, {"pansy", 0}, {"dress", 0}, {"orchid", 0},
	{"partridge", 0}, {"motorcycle", 1}, {"soup", 0}, {"foot", 0},
	{"pie", 0}, {"milk", 0}, {"rickshaw", 1}, {"eel", 0},
	{"unicycle", 1}, {"mosquito", 0}, {"cart", 1}, {"nut", 0},
	{"bean", 0}, {"cockroach", 0}, {"puppet", 0}, {"celery", 0},
	{"minnow", 0}, {"seal", 0}, {"tulip", 0}, {"lips", 0},
	{"marigold", 0}, {"tobacco", 0}, {"lime", 0}, {"dates", 0},
	{"canary", 0}, {"caterpillar", 0}, {"goose", 0}, {"yacht", 0},
	{"lily", 0}, {"aeroplane", 1}, {"potato", 0}, {"lion", 0},
	{"tricycle", 1}, {"banana", 0}, {"birch", 0}, {"bread", 0},
	{"scooter", 1}, {"elm", 0}, {"fir", 0}, {"toad", 0},
	{"hair", 0}, {"mayonnaise", 0}, {"cat", 0}, {"centipede", 0},
	{"strawberry", 0}, {"radish", 0}, {"trout", 0}, {"starling", 0},
	{"onion", 0}, {"tractor", 1}, {"nose", 0}, {"wasp", 0},
	{"wheelbarrow", 1}, {"vessel", 0}, {"skirt", 0}, {"heron", 0},
	{"tortoise", 0}, {"pig", 0}, {"schooner", 0}, {"octopus", 0},
	{"pelican", 0}, {"wheelchair", 1}, {"skunk", 0}, {"lizard", 0},
	{"swan", 0}, {"lobster", 0}, {"hamster", 0}, {"duck", 0},
	{"dandelion", 0}, {"mushroom", 0}, {"dove", 0}, {"peas", 0},
	{"wagon", 1}, {"raspberry", 0}, {"kingfisher", 0}, {"chestnut", 0},
	{"coach", 1}, {"shirt", 0}, {"wren", 0}, {"frigate", 0},
	{"porcupine", 0}, {"fern", 0}, {"asparagus", 0}, {"ant", 0},
	{"artichoke", 0}, {"sweater", 0}, {"daisy", 0}, {"corn", 0},
	{"pumpkin", 0}, {"suit", 0}, {"penguin", 0}, {"ox", 0},
	{"bear", 0}, {"spinach", 0}, {"eucalyptus", 0}, {"flamingo", 0},
	{"tangerine", 0},
}

// isDangerousPins assigns dimension 4: 1 for dangerous items, 0 otherwise.
var isDangerousPins = []wordValuePin{
	{"chainsaw", 1}, {"tricycle", 0}, {"panther", 1}, {"wolf", 1},
	{"grizzly", 1}, {"syringe", 1}, {"ball", 0}, {"soup", 0},
	{"poison", 1}, {"axe", 1}, {"mop", 0}, {"shovel", 0},
	{"giraffe", 0}, {"hod", 0}, {"crocodile", 1}, {"crossbow", 1},
	{"jellyfish", 1}, {"bullet", 1}, {"gun", 1}, {"methamphetamines", 1},
	{"snake", 1}, {"scorpion", 1}, {"hippo", 1}, {"blade", 1},
	{"lemur", 0}, {"gorillas", 1}, {"rifle", 1}, {"pitchfork", 1},
	{"glove", 0}, {"warthog", 1}, {"harpoon", 1}, {"cleaver", 1},
	{"heroin", 1}, {"rattlesnake", 1}, {"cougar", 1}, {"arrow", 1},
	{"puppet", 0}, {"elephant", 1}, {"methamphetamine", 1}, {"bomb", 1},
	{"tigress", 1}, {"valium", 1}, {"sword", 1}, {"porcupine", 0},
	{"weapon", 1}, {"recorder", 0}, {"motorcycle", 1}, {"derringer", 1},
	{"antelope", 0}, {"dinosaur", 1}, {"firearm", 1}, {"saw", 1},
	{"bayonet", 1}, {"tiger", 1}, {"doll", 0}, {"methadone", 1},
	{"cannon", 1}, {"toothbrush", 0}, {"tyrannosaurus", 1}, {"crayon", 0},
	{"rhinoceros", 1}, {"cocaine", 1}, {"tapir", 1}, {"lions", 1},
	{"hoe", 0}, {"whip", 1}, {"helicopter", 1}, {"broom", 0},
	{"otter", 0}, {"tambourine", 0}, {"jaguar", 1}, {"cheetah", 1},
	{"steroid", 1}, {"scissors", 1}, {"lion", 1}, {"drug", 1},
	{"amphetamine", 1}, {"zebra", 0}, {"rattle", 0}, {"hyena", 1},
	{"alligator", 1}, {"razor", 1}, {"slingshot", 1}, {"pistol", 1},
	{"viper", 1}, {"blender", 0}, {"goat", 0}, {"tortoise", 0},
	{"spade", 0}, {"python", 1}, {"silverback", 1}, {"shotgun", 1},
	{"toad", 0}, {"rocket", 1}, {"marble", 0}, {"leopard", 1},
	{"turtle", 0}, {"club", 1}, {"handgun", 1}, {"dromedary", 0},
	{"rabbit", 0}, {"shark", 1}, {"gazelle", 0}, {"stabbed", 1},
	{"axes", 1}, {"monkey", 0}, {"narcotic", 1}, {"kite", 0},
	{"bucket", 0}, {"guenon", 0}, {"balloon", 0}, {"stabbing", 1},
	{"satchel", 0}, {"spear", 1}, {"plough", 1}, {"camel", 0},
	{"knife", 1}, {"hornbill", 0}, {"boomerang", 1}, {"scythe", 1},
	{"revolver", 1}, {"tank", 1}, {"swing", 0},
}
