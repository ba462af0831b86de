package slippi

import "fmt"

// Character 游戏内部角色 ID（post-frame 0x07）
type Character uint8

const (
	Mario           Character = 0x00
	Fox             Character = 0x01
	CaptainFalcon   Character = 0x02
	DonkeyKong      Character = 0x03
	Kirby           Character = 0x04
	Bowser          Character = 0x05
	Link            Character = 0x06
	Sheik           Character = 0x07
	Ness            Character = 0x08
	Peach           Character = 0x09
	Popo            Character = 0x0A
	Nana            Character = 0x0B
	Pikachu         Character = 0x0C
	Samus           Character = 0x0D
	Yoshi           Character = 0x0E
	Jigglypuff      Character = 0x0F
	Mewtwo          Character = 0x10
	Luigi           Character = 0x11
	Marth           Character = 0x12
	Zelda           Character = 0x13
	YoungLink       Character = 0x14
	DrMario         Character = 0x15
	Falco           Character = 0x16
	Pichu           Character = 0x17
	GameAndWatch    Character = 0x18
	Ganondorf       Character = 0x19
	Roy             Character = 0x1A
	WireframeMale   Character = 0x1B
	WireframeFemale Character = 0x1C
	GigaBowser      Character = 0x1D
	Sandbag         Character = 0x1E

	UnknownCharacter Character = 0xFF
)

var characterNames = map[Character]string{
	Mario: "Mario", Fox: "Fox", CaptainFalcon: "CaptainFalcon", DonkeyKong: "DonkeyKong",
	Kirby: "Kirby", Bowser: "Bowser", Link: "Link", Sheik: "Sheik", Ness: "Ness",
	Peach: "Peach", Popo: "Popo", Nana: "Nana", Pikachu: "Pikachu", Samus: "Samus",
	Yoshi: "Yoshi", Jigglypuff: "Jigglypuff", Mewtwo: "Mewtwo", Luigi: "Luigi",
	Marth: "Marth", Zelda: "Zelda", YoungLink: "YoungLink", DrMario: "DrMario",
	Falco: "Falco", Pichu: "Pichu", GameAndWatch: "GameAndWatch", Ganondorf: "Ganondorf",
	Roy: "Roy", WireframeMale: "WireframeMale", WireframeFemale: "WireframeFemale",
	GigaBowser: "GigaBowser", Sandbag: "Sandbag", UnknownCharacter: "Unknown",
}

// CharacterFromID 查表；未知 ID 返回 false，由调用方替换为 UnknownCharacter
func CharacterFromID(id uint8) (Character, bool) {
	c := Character(id)
	if c == UnknownCharacter {
		return c, false
	}
	_, ok := characterNames[c]
	return c, ok
}

func (c Character) String() string {
	if name, ok := characterNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Character(0x%02x)", uint8(c))
}

// Action 动作状态 ID（post-frame 0x08）
type Action uint16

// 0x000..0x154 为全角色通用动作，0x155 起为角色专属动作（同一 ID 在不同角色上含义不同）
const (
	DeadDown                      Action = 0x000
	DeadLeft                      Action = 0x001
	DeadRight                     Action = 0x002
	DeadUp                        Action = 0x003
	DeadUpStar                    Action = 0x004
	DeadUpStarIce                 Action = 0x005
	DeadUpFall                    Action = 0x006
	DeadUpFallHitCamera           Action = 0x007
	DeadUpFallHitCameraFlat       Action = 0x008
	DeadUpFallIce                 Action = 0x009
	DeadUpFallHitCameraIce        Action = 0x00A
	Sleep                         Action = 0x00B
	OnHaloDescent                 Action = 0x00C
	OnHaloWait                    Action = 0x00D
	Standing                      Action = 0x00E
	WalkSlow                      Action = 0x00F
	WalkMiddle                    Action = 0x010
	WalkFast                      Action = 0x011
	Turning                       Action = 0x012
	TurningRun                    Action = 0x013
	Dashing                       Action = 0x014
	Running                       Action = 0x015
	RunDirect                     Action = 0x016
	RunBrake                      Action = 0x017
	KneeBend                      Action = 0x018
	JumpingForward                Action = 0x019
	JumpingBackward               Action = 0x01A
	JumpingAerialForward          Action = 0x01B
	JumpingAerialBackward         Action = 0x01C
	Falling                       Action = 0x01D
	FallingForward                Action = 0x01E
	FallingBackward               Action = 0x01F
	FallingAerial                 Action = 0x020
	FallingAerialForward          Action = 0x021
	FallingAerialBackward         Action = 0x022
	DeadFall                      Action = 0x023
	SpecialFallForward            Action = 0x024
	SpecialFallBack               Action = 0x025
	Tumbling                      Action = 0x026
	CrouchStart                   Action = 0x027
	Crouching                     Action = 0x028
	CrouchEnd                     Action = 0x029
	Landing                       Action = 0x02A
	LandingSpecial                Action = 0x02B
	NeutralAttack1                Action = 0x02C
	NeutralAttack2                Action = 0x02D
	NeutralAttack3                Action = 0x02E
	LoopingAttackStart            Action = 0x02F
	LoopingAttackMiddle           Action = 0x030
	LoopingAttackEnd              Action = 0x031
	DashAttack                    Action = 0x032
	FTiltHigh                     Action = 0x033
	FTiltHighMid                  Action = 0x034
	FTiltMid                      Action = 0x035
	FTiltLowMid                   Action = 0x036
	FTiltLow                      Action = 0x037
	UpTilt                        Action = 0x038
	DownTilt                      Action = 0x039
	FSmashHigh                    Action = 0x03A
	FSmashMidHigh                 Action = 0x03B
	FSmashMid                     Action = 0x03C
	FSmashMidLow                  Action = 0x03D
	FSmashLow                     Action = 0x03E
	UpSmash                       Action = 0x03F
	DownSmash                     Action = 0x040
	Nair                          Action = 0x041
	Fair                          Action = 0x042
	Bair                          Action = 0x043
	Uair                          Action = 0x044
	Dair                          Action = 0x045
	NairLanding                   Action = 0x046
	FairLanding                   Action = 0x047
	BairLanding                   Action = 0x048
	UairLanding                   Action = 0x049
	DairLanding                   Action = 0x04A
	DamageHigh1                   Action = 0x04B
	DamageHigh2                   Action = 0x04C
	DamageHigh3                   Action = 0x04D
	DamageNeutral1                Action = 0x04E
	DamageNeutral2                Action = 0x04F
	DamageNeutral3                Action = 0x050
	DamageLow1                    Action = 0x051
	DamageLow2                    Action = 0x052
	DamageLow3                    Action = 0x053
	DamageAir1                    Action = 0x054
	DamageAir2                    Action = 0x055
	DamageAir3                    Action = 0x056
	DamageFlyHigh                 Action = 0x057
	DamageFlyNeutral              Action = 0x058
	DamageFlyLow                  Action = 0x059
	DamageFlyTop                  Action = 0x05A
	DamageFlyRoll                 Action = 0x05B
	LightItemPickup               Action = 0x05C
	HeavyItemPickup               Action = 0x05D
	ItemThrowLightForward         Action = 0x05E
	ItemThrowLightBack            Action = 0x05F
	ItemThrowLightHigh            Action = 0x060
	ItemThrowLightLow             Action = 0x061
	ItemThrowLightDash            Action = 0x062
	ItemThrowLightDrop            Action = 0x063
	ItemThrowLightAirForward      Action = 0x064
	ItemThrowLightAirBack         Action = 0x065
	ItemThrowLightAirHigh         Action = 0x066
	ItemThrowLightAirLow          Action = 0x067
	ItemThrowHeavyForward         Action = 0x068
	ItemThrowHeavyBack            Action = 0x069
	ItemThrowHeavyHigh            Action = 0x06A
	ItemThrowHeavyLow             Action = 0x06B
	ItemThrowLightSmashForward    Action = 0x06C
	ItemThrowLightSmashBack       Action = 0x06D
	ItemThrowLightSmashUp         Action = 0x06E
	ItemThrowLightSmashDown       Action = 0x06F
	ItemThrowLightAirSmashForward Action = 0x070
	ItemThrowLightAirSmashBack    Action = 0x071
	ItemThrowLightAirSmashHigh    Action = 0x072
	ItemThrowLightAirSmashLow     Action = 0x073
	ItemThrowHeavyAirSmashForward Action = 0x074
	ItemThrowHeavyAirSmashBack    Action = 0x075
	ItemThrowHeavyAirSmashHigh    Action = 0x076
	ItemThrowHeavyAirSmashLow     Action = 0x077
	BeamSwordSwing1               Action = 0x078
	BeamSwordSwing2               Action = 0x079
	BeamSwordSwing3               Action = 0x07A
	BeamSwordSwing4               Action = 0x07B
	BatSwing1                     Action = 0x07C
	BatSwing2                     Action = 0x07D
	BatSwing3                     Action = 0x07E
	BatSwing4                     Action = 0x07F
	ParasolSwing1                 Action = 0x080
	ParasolSwing2                 Action = 0x081
	ParasolSwing3                 Action = 0x082
	ParasolSwing4                 Action = 0x083
	FanSwing1                     Action = 0x084
	FanSwing2                     Action = 0x085
	FanSwing3                     Action = 0x086
	FanSwing4                     Action = 0x087
	StarRodSwing1                 Action = 0x088
	StarRodSwing2                 Action = 0x089
	StarRodSwing3                 Action = 0x08A
	StarRodSwing4                 Action = 0x08B
	LipStickSwing1                Action = 0x08C
	LipStickSwing2                Action = 0x08D
	LipStickSwing3                Action = 0x08E
	LipStickSwing4                Action = 0x08F
	ItemParasolOpen               Action = 0x090
	ItemParasolFall               Action = 0x091
	ItemParasolFallSpecial        Action = 0x092
	ItemParasolDamageFall         Action = 0x093
	LGunShoot                     Action = 0x094
	LGunShootAir                  Action = 0x095
	LGunShootEmpty                Action = 0x096
	LGunShootAirEmpty             Action = 0x097
	FireFlowerShoot               Action = 0x098
	FireFlowerShootAir            Action = 0x099
	ItemScrew                     Action = 0x09A
	ItemScrewAir                  Action = 0x09B
	DamageScrew                   Action = 0x09C
	DamageScrewAir                Action = 0x09D
	ItemScopeStart                Action = 0x09E
	ItemScopeRapid                Action = 0x09F
	ItemScopeFire                 Action = 0x0A0
	ItemScopeEnd                  Action = 0x0A1
	ItemScopeAirStart             Action = 0x0A2
	ItemScopeAirRapid             Action = 0x0A3
	ItemScopeAirFire              Action = 0x0A4
	ItemScopeAirEnd               Action = 0x0A5
	ItemScopeStartEmpty           Action = 0x0A6
	ItemScopeRapidEmpty           Action = 0x0A7
	ItemScopeFireEmpty            Action = 0x0A8
	ItemScopeEndEmpty             Action = 0x0A9
	ItemScopeAirStartEmpty        Action = 0x0AA
	ItemScopeAirRapidEmpty        Action = 0x0AB
	ItemScopeAirFireEmpty         Action = 0x0AC
	ItemScopeAirEndEmpty          Action = 0x0AD
	LiftWait                      Action = 0x0AE
	LiftWalk1                     Action = 0x0AF
	LiftWalk2                     Action = 0x0B0
	LiftTurn                      Action = 0x0B1
	ShieldStart                   Action = 0x0B2
	Shield                        Action = 0x0B3
	ShieldRelease                 Action = 0x0B4
	ShieldStun                    Action = 0x0B5
	ShieldReflect                 Action = 0x0B6
	TechMissUp                    Action = 0x0B7
	LyingGroundUp                 Action = 0x0B8
	LyingGroundUpHit              Action = 0x0B9
	GroundGetup                   Action = 0x0BA
	GroundAttackUp                Action = 0x0BB
	GroundRollForwardUp           Action = 0x0BC
	GroundRollBackwardUp          Action = 0x0BD
	GroundSpotUp                  Action = 0x0BE
	TechMissDown                  Action = 0x0BF
	LyingGroundDown               Action = 0x0C0
	DamageGround                  Action = 0x0C1
	NeutralGetup                  Action = 0x0C2
	GetupAttack                   Action = 0x0C3
	GroundRollForwardDown         Action = 0x0C4
	GroundRollBackwardDown        Action = 0x0C5
	GroundSpotDown                Action = 0x0C6
	NeutralTech                   Action = 0x0C7
	ForwardTech                   Action = 0x0C8
	BackwardTech                  Action = 0x0C9
	WallTech                      Action = 0x0CA
	WallTechJump                  Action = 0x0CB
	CeilingTech                   Action = 0x0CC
	ShieldBreakFly                Action = 0x0CD
	ShieldBreakFall               Action = 0x0CE
	ShieldBreakDownU              Action = 0x0CF
	ShieldBreakDownD              Action = 0x0D0
	ShieldBreakStandU             Action = 0x0D1
	ShieldBreakStandD             Action = 0x0D2
	ShieldBreakTeeter             Action = 0x0D3
	Grab                          Action = 0x0D4
	GrabPulling                   Action = 0x0D5
	GrabRunning                   Action = 0x0D6
	GrabRunningPulling            Action = 0x0D7
	GrabWait                      Action = 0x0D8
	GrabPummel                    Action = 0x0D9
	GrabBreak                     Action = 0x0DA
	ThrowForward                  Action = 0x0DB
	ThrowBack                     Action = 0x0DC
	ThrowUp                       Action = 0x0DD
	ThrowDown                     Action = 0x0DE
	GrabPullingHigh               Action = 0x0DF
	GrabbedWaitHigh               Action = 0x0E0
	PummeledHigh                  Action = 0x0E1
	GrabPull                      Action = 0x0E2
	Grabbed                       Action = 0x0E3
	GrabPummeled                  Action = 0x0E4
	GrabEscape                    Action = 0x0E5
	GrabJump                      Action = 0x0E6
	GrabNeck                      Action = 0x0E7
	GrabFoot                      Action = 0x0E8
	RollForward                   Action = 0x0E9
	RollBackward                  Action = 0x0EA
	Spotdodge                     Action = 0x0EB
	Airdodge                      Action = 0x0EC
	ReboundStop                   Action = 0x0ED
	Rebound                       Action = 0x0EE
	ThrownForward                 Action = 0x0EF
	ThrownBack                    Action = 0x0F0
	ThrownUp                      Action = 0x0F1
	ThrownDown                    Action = 0x0F2
	ThrownDown2                   Action = 0x0F3
	PlatformDrop                  Action = 0x0F4
	EdgeTeeteringStart            Action = 0x0F5
	EdgeTeetering                 Action = 0x0F6
	BounceWall                    Action = 0x0F7
	BounceCeiling                 Action = 0x0F8
	StopWall                      Action = 0x0F9
	StopCeiling                   Action = 0x0FA
	SlidingOffEdge                Action = 0x0FB
	EdgeCatching                  Action = 0x0FC
	EdgeHanging                   Action = 0x0FD
	EdgeGetupSlow                 Action = 0x0FE
	EdgeGetupQuick                Action = 0x0FF
	EdgeAttackSlow                Action = 0x100
	EdgeAttackQuick               Action = 0x101
	EdgeRollSlow                  Action = 0x102
	EdgeRollQuick                 Action = 0x103
	EdgeJump1Slow                 Action = 0x104
	EdgeJump2Slow                 Action = 0x105
	EdgeJump1Quick                Action = 0x106
	EdgeJump2Quick                Action = 0x107
	TauntRight                    Action = 0x108
	TauntLeft                     Action = 0x109
	ShoulderedWait                Action = 0x10A
	ShoulderedWalkSlow            Action = 0x10B
	ShoulderedWalkMiddle          Action = 0x10C
	ShoulderedWalkFast            Action = 0x10D
	ShoulderedTurn                Action = 0x10E
	ThrownFF                      Action = 0x10F
	ThrownFB                      Action = 0x110
	ThrownFHigh                   Action = 0x111
	ThrownFLow                    Action = 0x112
	CaptainFalconGrabbed          Action = 0x113
	YoshiGrabbed                  Action = 0x114
	YoshiEgg                      Action = 0x115
	KoopaGrabbed                  Action = 0x116
	KoopaGrabbedDamage            Action = 0x117
	KoopaGrabbedWait              Action = 0x118
	ThrownKoopaForward            Action = 0x119
	ThrownKoopaBack               Action = 0x11A
	KoopaAirGrabbed               Action = 0x11B
	KoopaAirGrabbedDamage         Action = 0x11C
	KoopaAirGrabbedWait           Action = 0x11D
	ThrownKoopaAirForward         Action = 0x11E
	ThrownKoopaAirBack            Action = 0x11F
	KirbyGrabbed                  Action = 0x120
	KirbyGrabbedWait              Action = 0x121
	ThrownKirbyStar               Action = 0x122
	ThrownCopyStar                Action = 0x123
	ThrownKirby                   Action = 0x124
	BarrelWait                    Action = 0x125
	Buried                        Action = 0x126
	BuriedWait                    Action = 0x127
	BuriedJump                    Action = 0x128
	DamageSong                    Action = 0x129
	DamageSongWait                Action = 0x12A
	DamageSongEnd                 Action = 0x12B
	DamageBind                    Action = 0x12C
	MewtwoGrabbed                 Action = 0x12D
	MewtwoAirGrabbed              Action = 0x12E
	ThrownMewtwo                  Action = 0x12F
	ThrownMewtwoAir               Action = 0x130
	WarpStarJump                  Action = 0x131
	WarpStarFall                  Action = 0x132
	HammerWait                    Action = 0x133
	HammerWalk                    Action = 0x134
	HammerTurn                    Action = 0x135
	HammerKneeBend                Action = 0x136
	HammerFall                    Action = 0x137
	HammerJump                    Action = 0x138
	HammerLanding                 Action = 0x139
	MushroomGiantStart            Action = 0x13A
	MushroomGiantStartAir         Action = 0x13B
	MushroomGiantEnd              Action = 0x13C
	MushroomGiantEndAir           Action = 0x13D
	MushroomSmallStart            Action = 0x13E
	MushroomSmallStartAir         Action = 0x13F
	MushroomSmallEnd              Action = 0x140
	MushroomSmallEndAir           Action = 0x141
	Entry                         Action = 0x142
	EntryStart                    Action = 0x143
	EntryEnd                      Action = 0x144
	DamageIce                     Action = 0x145
	DamageIceJump                 Action = 0x146
	MasterHandGrabbed             Action = 0x147
	MasterHandGrabbedDamage       Action = 0x148
	MasterHandGrabbedWait         Action = 0x149
	ThrownMasterHand              Action = 0x14A
	KirbyYoshiGrabbed             Action = 0x14B
	KirbyYoshiEgg                 Action = 0x14C
	RedeadGrabbed                 Action = 0x14D
	LikeLikeGrabbed               Action = 0x14E
	DownReflect                   Action = 0x14F
	CrazyHandGrabbed              Action = 0x150
	CrazyHandGrabbedDamage        Action = 0x151
	CrazyHandGrabbedWait          Action = 0x152
	ThrownCrazyHand               Action = 0x153
	BarrelCannonWait              Action = 0x154

	CharacterSpecialFirst         Action = 0x155
	CharacterSpecialLast          Action = 0x1FF

	UnknownAnimation              Action = 0xFFFF
)

// actionNames 按 ID 下标排列的通用动作名
var actionNames = [...]string{
	"DeadDown", "DeadLeft", "DeadRight", "DeadUp", "DeadUpStar", "DeadUpStarIce", "DeadUpFall",
	"DeadUpFallHitCamera", "DeadUpFallHitCameraFlat", "DeadUpFallIce", "DeadUpFallHitCameraIce",
	"Sleep", "OnHaloDescent", "OnHaloWait", "Standing", "WalkSlow", "WalkMiddle", "WalkFast",
	"Turning", "TurningRun", "Dashing", "Running", "RunDirect", "RunBrake", "KneeBend",
	"JumpingForward", "JumpingBackward", "JumpingAerialForward", "JumpingAerialBackward", "Falling",
	"FallingForward", "FallingBackward", "FallingAerial", "FallingAerialForward",
	"FallingAerialBackward", "DeadFall", "SpecialFallForward", "SpecialFallBack", "Tumbling",
	"CrouchStart", "Crouching", "CrouchEnd", "Landing", "LandingSpecial", "NeutralAttack1",
	"NeutralAttack2", "NeutralAttack3", "LoopingAttackStart", "LoopingAttackMiddle",
	"LoopingAttackEnd", "DashAttack", "FTiltHigh", "FTiltHighMid", "FTiltMid", "FTiltLowMid",
	"FTiltLow", "UpTilt", "DownTilt", "FSmashHigh", "FSmashMidHigh", "FSmashMid", "FSmashMidLow",
	"FSmashLow", "UpSmash", "DownSmash", "Nair", "Fair", "Bair", "Uair", "Dair", "NairLanding",
	"FairLanding", "BairLanding", "UairLanding", "DairLanding", "DamageHigh1", "DamageHigh2",
	"DamageHigh3", "DamageNeutral1", "DamageNeutral2", "DamageNeutral3", "DamageLow1", "DamageLow2",
	"DamageLow3", "DamageAir1", "DamageAir2", "DamageAir3", "DamageFlyHigh", "DamageFlyNeutral",
	"DamageFlyLow", "DamageFlyTop", "DamageFlyRoll", "LightItemPickup", "HeavyItemPickup",
	"ItemThrowLightForward", "ItemThrowLightBack", "ItemThrowLightHigh", "ItemThrowLightLow",
	"ItemThrowLightDash", "ItemThrowLightDrop", "ItemThrowLightAirForward", "ItemThrowLightAirBack",
	"ItemThrowLightAirHigh", "ItemThrowLightAirLow", "ItemThrowHeavyForward", "ItemThrowHeavyBack",
	"ItemThrowHeavyHigh", "ItemThrowHeavyLow", "ItemThrowLightSmashForward",
	"ItemThrowLightSmashBack", "ItemThrowLightSmashUp", "ItemThrowLightSmashDown",
	"ItemThrowLightAirSmashForward", "ItemThrowLightAirSmashBack", "ItemThrowLightAirSmashHigh",
	"ItemThrowLightAirSmashLow", "ItemThrowHeavyAirSmashForward", "ItemThrowHeavyAirSmashBack",
	"ItemThrowHeavyAirSmashHigh", "ItemThrowHeavyAirSmashLow", "BeamSwordSwing1", "BeamSwordSwing2",
	"BeamSwordSwing3", "BeamSwordSwing4", "BatSwing1", "BatSwing2", "BatSwing3", "BatSwing4",
	"ParasolSwing1", "ParasolSwing2", "ParasolSwing3", "ParasolSwing4", "FanSwing1", "FanSwing2",
	"FanSwing3", "FanSwing4", "StarRodSwing1", "StarRodSwing2", "StarRodSwing3", "StarRodSwing4",
	"LipStickSwing1", "LipStickSwing2", "LipStickSwing3", "LipStickSwing4", "ItemParasolOpen",
	"ItemParasolFall", "ItemParasolFallSpecial", "ItemParasolDamageFall", "LGunShoot", "LGunShootAir",
	"LGunShootEmpty", "LGunShootAirEmpty", "FireFlowerShoot", "FireFlowerShootAir", "ItemScrew",
	"ItemScrewAir", "DamageScrew", "DamageScrewAir", "ItemScopeStart", "ItemScopeRapid",
	"ItemScopeFire", "ItemScopeEnd", "ItemScopeAirStart", "ItemScopeAirRapid", "ItemScopeAirFire",
	"ItemScopeAirEnd", "ItemScopeStartEmpty", "ItemScopeRapidEmpty", "ItemScopeFireEmpty",
	"ItemScopeEndEmpty", "ItemScopeAirStartEmpty", "ItemScopeAirRapidEmpty", "ItemScopeAirFireEmpty",
	"ItemScopeAirEndEmpty", "LiftWait", "LiftWalk1", "LiftWalk2", "LiftTurn", "ShieldStart", "Shield",
	"ShieldRelease", "ShieldStun", "ShieldReflect", "TechMissUp", "LyingGroundUp", "LyingGroundUpHit",
	"GroundGetup", "GroundAttackUp", "GroundRollForwardUp", "GroundRollBackwardUp", "GroundSpotUp",
	"TechMissDown", "LyingGroundDown", "DamageGround", "NeutralGetup", "GetupAttack",
	"GroundRollForwardDown", "GroundRollBackwardDown", "GroundSpotDown", "NeutralTech", "ForwardTech",
	"BackwardTech", "WallTech", "WallTechJump", "CeilingTech", "ShieldBreakFly", "ShieldBreakFall",
	"ShieldBreakDownU", "ShieldBreakDownD", "ShieldBreakStandU", "ShieldBreakStandD",
	"ShieldBreakTeeter", "Grab", "GrabPulling", "GrabRunning", "GrabRunningPulling", "GrabWait",
	"GrabPummel", "GrabBreak", "ThrowForward", "ThrowBack", "ThrowUp", "ThrowDown", "GrabPullingHigh",
	"GrabbedWaitHigh", "PummeledHigh", "GrabPull", "Grabbed", "GrabPummeled", "GrabEscape",
	"GrabJump", "GrabNeck", "GrabFoot", "RollForward", "RollBackward", "Spotdodge", "Airdodge",
	"ReboundStop", "Rebound", "ThrownForward", "ThrownBack", "ThrownUp", "ThrownDown", "ThrownDown2",
	"PlatformDrop", "EdgeTeeteringStart", "EdgeTeetering", "BounceWall", "BounceCeiling", "StopWall",
	"StopCeiling", "SlidingOffEdge", "EdgeCatching", "EdgeHanging", "EdgeGetupSlow", "EdgeGetupQuick",
	"EdgeAttackSlow", "EdgeAttackQuick", "EdgeRollSlow", "EdgeRollQuick", "EdgeJump1Slow",
	"EdgeJump2Slow", "EdgeJump1Quick", "EdgeJump2Quick", "TauntRight", "TauntLeft", "ShoulderedWait",
	"ShoulderedWalkSlow", "ShoulderedWalkMiddle", "ShoulderedWalkFast", "ShoulderedTurn", "ThrownFF",
	"ThrownFB", "ThrownFHigh", "ThrownFLow", "CaptainFalconGrabbed", "YoshiGrabbed", "YoshiEgg",
	"KoopaGrabbed", "KoopaGrabbedDamage", "KoopaGrabbedWait", "ThrownKoopaForward", "ThrownKoopaBack",
	"KoopaAirGrabbed", "KoopaAirGrabbedDamage", "KoopaAirGrabbedWait", "ThrownKoopaAirForward",
	"ThrownKoopaAirBack", "KirbyGrabbed", "KirbyGrabbedWait", "ThrownKirbyStar", "ThrownCopyStar",
	"ThrownKirby", "BarrelWait", "Buried", "BuriedWait", "BuriedJump", "DamageSong", "DamageSongWait",
	"DamageSongEnd", "DamageBind", "MewtwoGrabbed", "MewtwoAirGrabbed", "ThrownMewtwo",
	"ThrownMewtwoAir", "WarpStarJump", "WarpStarFall", "HammerWait", "HammerWalk", "HammerTurn",
	"HammerKneeBend", "HammerFall", "HammerJump", "HammerLanding", "MushroomGiantStart",
	"MushroomGiantStartAir", "MushroomGiantEnd", "MushroomGiantEndAir", "MushroomSmallStart",
	"MushroomSmallStartAir", "MushroomSmallEnd", "MushroomSmallEndAir", "Entry", "EntryStart",
	"EntryEnd", "DamageIce", "DamageIceJump", "MasterHandGrabbed", "MasterHandGrabbedDamage",
	"MasterHandGrabbedWait", "ThrownMasterHand", "KirbyYoshiGrabbed", "KirbyYoshiEgg",
	"RedeadGrabbed", "LikeLikeGrabbed", "DownReflect", "CrazyHandGrabbed", "CrazyHandGrabbedDamage",
	"CrazyHandGrabbedWait", "ThrownCrazyHand", "BarrelCannonWait",
}

// ActionFromID 查表；未收录的 ID 返回 false，由调用方替换为 UnknownAnimation
func ActionFromID(id uint16) (Action, bool) {
	a := Action(id)
	return a, int(a) < len(actionNames) || a.CharacterSpecific()
}

// CharacterSpecific 报告 ID 是否落在角色专属动作区间
func (a Action) CharacterSpecific() bool {
	return a >= CharacterSpecialFirst && a <= CharacterSpecialLast
}

func (a Action) String() string {
	switch {
	case int(a) < len(actionNames):
		return actionNames[a]
	case a.CharacterSpecific():
		return fmt.Sprintf("CharacterSpecific(0x%03x)", uint16(a))
	case a == UnknownAnimation:
		return "UnknownAnimation"
	}
	return fmt.Sprintf("Action(0x%03x)", uint16(a))
}
